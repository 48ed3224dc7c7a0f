package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-digest/internal/section"
)

// Summarizer builds a hierarchical summary of a sectioned transcript: one summary per
// section, a document summary from fixed-length parts of those, then themes.
// Every step issues its model calls one after another.
type Summarizer interface {
	SummarizeSections(ctx context.Context, sections []section.Section) ([]string, error)
	MergeAndResummarize(ctx context.Context, sectionSummaries []string) (string, error)
	ExtractThemes(ctx context.Context, documentSummary string) (raw string, labels []string, err error)
	ElaborateThemes(ctx context.Context, documentSummary string, labels []string) ([]ThemeEntry, error)
	Summarize(ctx context.Context, sections []section.Section) (*Result, error)
}

// ThemeEntry pairs a theme label with the passage the model located for it.
type ThemeEntry struct {
	Label         string
	Topic         string
	ExtractedText string
}

// Result holds every intermediate and final output of one Summarize pass.
type Result struct {
	SectionSummaries []string
	Parts            []string
	Document         string
	ThemeList        string
	ThemeLabels      []string
	Themes           []ThemeEntry
}
