package processor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	records []transcript.Record
	err     error
	keys    []string
}

func (s *memSource) List(_ context.Context, summaryKey string) ([]transcript.Record, error) {
	s.keys = append(s.keys, summaryKey)
	return s.records, s.err
}

type memSink struct {
	mu      sync.Mutex
	entries map[string]string
}

func (s *memSink) Write(_ context.Context, e transcript.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[e.TranscriptID+"/"+e.SummaryKey] = e.Summary
	return nil
}

func TestSweep(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &scriptedModel{}, logger.Nop())

	src := &memSource{records: []transcript.Record{
		{TranscriptID: "good", RawText: meeting},
		{TranscriptID: "broken", RawText: "nothing anyone said"},
	}}
	sink := &memSink{}

	stats, err := p.Sweep(context.Background(), src, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"short_summary_10", "long_summary_10"}, src.keys)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 2, stats.Failed)
	for _, f := range stats.Failures {
		assert.Equal(t, "broken", f.TranscriptID)
	}

	keys := make([]string, 0, len(sink.entries))
	for k := range sink.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"good/long_summary_10", "good/short_summary_10"}, keys)

	assert.True(t, strings.HasPrefix(sink.entries["good/short_summary_10"], "Meeting summary\n1. Budget\n{{Alice}} covers it"))
	assert.Equal(t, "Discussed themes\n1. Budget\n\n2. Plan\n\nSummary\n01234567890123456789", sink.entries["good/long_summary_10"])
}

func TestSweepListFailure(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &scriptedModel{}, logger.Nop())

	_, err := p.Sweep(context.Background(), &memSource{err: errors.New("down")}, &memSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short_summary_10")
}

func TestSweepCanceled(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &scriptedModel{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &memSource{records: []transcript.Record{{TranscriptID: "good", RawText: meeting}}}
	_, err := p.Sweep(ctx, src, &memSink{})
	assert.ErrorIs(t, err, context.Canceled)
}
