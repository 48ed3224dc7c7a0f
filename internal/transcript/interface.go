// Package transcript reads raw transcripts and writes their summaries back.
package transcript

import "context"

// Record is one raw transcript awaiting summarization.
type Record struct {
	TranscriptID string `json:"transcriptId" validate:"required"`
	RawText      string `json:"summary"`
}

// Entry is one summary to store under a key.
type Entry struct {
	TranscriptID string `json:"transcriptId" validate:"required"`
	SummaryKey   string `json:"summaryKey" validate:"required"`
	Summary      string `json:"summary" validate:"required"`
}

// Source lists raw transcripts that have no summary under summaryKey yet.
type Source interface {
	List(ctx context.Context, summaryKey string) ([]Record, error)
}

// Sink stores a summary. Writing an existing (transcript, key) pair overwrites it.
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}
