package processor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
)

// Processor runs the digest pipeline over transcripts.
type Processor interface {
	// Digest summarizes one transcript with the given part length.
	Digest(ctx context.Context, rec transcript.Record, partLength int) (*Digest, error)
	// Process digests a local transcript file for every configured part length and
	// writes the reports to the output directory.
	Process(ctx context.Context, path string) error
	// Sweep summarizes every pending transcript for every (part length, mode) key.
	Sweep(ctx context.Context, src transcript.Source, sink transcript.Sink) (Stats, error)
}
