package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/meeting-digest/internal/report"
)

// TranscriptExt is the extension of local transcript files.
const TranscriptExt = ".txt"

// Local reads transcripts from a directory of .txt files and writes summaries to
// "<output>/<transcriptId>/<summaryKey>.<ext>".
type Local struct {
	inputDir  string
	outputDir string
	format    string
}

// NewLocal creates a Local store. format is "markdown" or "docx".
func NewLocal(inputDir, outputDir, format string) *Local {
	return &Local{inputDir: inputDir, outputDir: outputDir, format: format}
}

// ReadFile loads a single transcript file as a Record named after the file.
func ReadFile(path string) (Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read transcript: %w", err)
	}
	return Record{TranscriptID: RecordID(path), RawText: string(content)}, nil
}

// RecordID derives a transcript id from its file name.
func RecordID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// List returns every transcript in the input directory without output under summaryKey.
func (l *Local) List(ctx context.Context, summaryKey string) ([]Record, error) {
	entries, err := os.ReadDir(l.inputDir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) == TranscriptExt {
			paths = append(paths, filepath.Join(l.inputDir, e.Name()))
		}
	}
	sort.Strings(paths)

	var records []Record
	for _, p := range paths {
		id := RecordID(p)
		if summaryKey != "" && l.exists(id, summaryKey) {
			continue
		}
		r, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Write stores the summary, replacing any earlier one under the same key.
func (l *Local) Write(ctx context.Context, entry Entry) error {
	dir := filepath.Join(l.outputDir, entry.TranscriptID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	r := report.Report{Title: entry.TranscriptID + " " + entry.SummaryKey, Body: entry.Summary}
	if l.format == "docx" {
		return report.WriteDocx(r, l.path(entry.TranscriptID, entry.SummaryKey))
	}
	return report.WriteMarkdown(r, l.path(entry.TranscriptID, entry.SummaryKey))
}

func (l *Local) exists(id, summaryKey string) bool {
	_, err := os.Stat(l.path(id, summaryKey))
	return err == nil
}

func (l *Local) path(id, summaryKey string) string {
	ext := ".md"
	if l.format == "docx" {
		ext = ".docx"
	}
	return filepath.Join(l.outputDir, id, summaryKey+ext)
}
