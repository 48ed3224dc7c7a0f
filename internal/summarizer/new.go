package summarizer

import (
	"github.com/nguyentantai21042004/meeting-digest/internal/llm"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

// DefaultPartLength is the merge unit size in characters.
const DefaultPartLength = 1000

// Options configures a Summarizer.
type Options struct {
	PartLength int
	// DropRemainder discards the trailing part shorter than PartLength.
	DropRemainder bool
	Prompts       Prompts
}

type implSummarizer struct {
	model  llm.Model
	opts   Options
	logger logger.Logger
}

// New creates a Summarizer. Empty prompt templates fall back to DefaultPrompts("English").
func New(model llm.Model, opts Options, log logger.Logger) Summarizer {
	if opts.PartLength <= 0 {
		opts.PartLength = DefaultPartLength
	}
	opts.Prompts = opts.Prompts.withDefaults(DefaultPrompts("English"))

	return &implSummarizer{
		model:  model,
		opts:   opts,
		logger: log,
	}
}
