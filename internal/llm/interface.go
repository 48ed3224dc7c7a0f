// Package llm provides the text-generation capability the summarizer depends on.
package llm

import "context"

// Model turns a prompt into generated text. Each call is independent: no conversation
// history is carried from one call to the next.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f ModelFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
