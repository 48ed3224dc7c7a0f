package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meeting = "Alice(00:01) hi there\n" +
	"Bob(00:02) hello\n" +
	"noise without a timestamp\n" +
	"Alice(00:03) about the plan\n" +
	"Bob(00:04) ok\n"

// scriptedModel answers by prompt prefix and is safe for concurrent sweeps.
type scriptedModel struct {
	mu    sync.Mutex
	calls int
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	switch {
	case strings.HasPrefix(prompt, "S["):
		return "0123456789", nil
	case strings.HasPrefix(prompt, "T["):
		return "1. Budget\n\n2. Plan", nil
	case strings.HasPrefix(prompt, "E["):
		return "[A] covers it", nil
	}
	return "", errors.New("unexpected prompt")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{
		Summary: config.SummaryConfig{
			SectionLength: 5,
			PartLengths:   []int{10},
			Language:      "English",
			Prompts: config.PromptsConfig{
				Summarize: "S[{text}]",
				Themes:    "T[{text}]",
				Elaborate: "E[{text}|{label}]",
			},
		},
		Model: config.ModelConfig{
			Backend: config.BackendCommand,
			Command: config.CommandConfig{Binary: "true"},
		},
		Paths: config.PathsConfig{
			Input:    filepath.Join(root, "input"),
			Output:   filepath.Join(root, "output"),
			Archived: filepath.Join(root, "archived"),
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestDigest(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &scriptedModel{}, logger.Nop())

	d, err := p.Digest(context.Background(), transcript.Record{TranscriptID: "m1", RawText: meeting}, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob"}, d.Speakers.Names())
	require.Len(t, d.Utterances, 4)
	assert.Equal(t, "[A] hi there", d.Utterances[0].Text)
	require.Len(t, d.Anomalies, 1)
	assert.Equal(t, 3, d.Anomalies[0].LineNumber)
	assert.Len(t, d.Sections, 2)
	assert.Empty(t, d.Dropped)

	assert.Equal(t, "01234567890123456789", d.Result.Document)
	assert.Equal(t, []string{"1. Budget", "2. Plan"}, d.Result.ThemeLabels)

	oneSentence, ok := d.Report(report.OneSentence)
	require.True(t, ok)
	assert.Equal(t, "Budget, Plan", oneSentence.Body)

	median, ok := d.Report(report.Median)
	require.True(t, ok)
	assert.Equal(t, "1. Budget\n{{Alice}} covers it\n\n2. Plan\n{{Alice}} covers it", median.Body)
}

func TestDigestSkipsUnavailableVariant(t *testing.T) {
	cfg := testConfig(t)
	cfg.Summary.Variants = []string{"long", "median"}
	p := New(cfg, &scriptedModel{}, logger.Nop())

	d, err := p.Digest(context.Background(), transcript.Record{TranscriptID: "m1", RawText: meeting}, 10)
	require.NoError(t, err)
	require.Len(t, d.Reports, 1)
	assert.Equal(t, report.Median, d.Reports[0].Variant)
}

func TestDigestNothingToSummarize(t *testing.T) {
	cfg := testConfig(t)
	m := &scriptedModel{}
	p := New(cfg, m, logger.Nop())

	_, err := p.Digest(context.Background(), transcript.Record{TranscriptID: "m1", RawText: "just noise"}, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTruncationLoss))
	assert.Zero(t, m.calls)
}

func TestBody(t *testing.T) {
	d := &Digest{Reports: []report.Report{
		{Variant: report.Short, Title: "Themes", Body: "short body"},
		{Variant: report.Median, Title: "Summary", Body: "median body"},
	}}

	short, err := Body(config.ModeShort, d)
	require.NoError(t, err)
	assert.Equal(t, "Summary\nmedian body", short)

	long, err := Body(config.ModeLong, d)
	require.NoError(t, err)
	assert.Equal(t, "Themes\nshort body", long)

	_, err = Body(config.ModeShort, &Digest{})
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Paths.Input, 0755))
	path := filepath.Join(cfg.Paths.Input, "weekly.txt")
	require.NoError(t, os.WriteFile(path, []byte(meeting), 0644))

	p := New(cfg, &scriptedModel{}, logger.Nop())
	require.NoError(t, p.Process(context.Background(), path))

	for _, variant := range []string{"one_sentence", "short", "median"} {
		_, err := os.Stat(filepath.Join(cfg.Paths.Output, "weekly", "weekly_10."+variant+".md"))
		assert.NoError(t, err, variant)
	}

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.Paths.Archived, "weekly.txt"))
	assert.NoError(t, err)
}

func TestProcessMissingFile(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &scriptedModel{}, logger.Nop())
	assert.Error(t, p.Process(context.Background(), filepath.Join(cfg.Paths.Input, "missing.txt")))
}
