package llm

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/meeting-digest/pkg/executor"
)

// PromptPlaceholder in command arguments is replaced by the prompt.
const PromptPlaceholder = "{prompt}"

// Command runs a local model binary once per prompt and returns its stdout.
type Command struct {
	executor executor.Executor
	binary   string
	args     []string
}

// NewCommand creates a Command model. If no argument contains PromptPlaceholder the
// prompt is passed as the last argument.
func NewCommand(exec executor.Executor, binary string, args []string) *Command {
	return &Command{executor: exec, binary: binary, args: args}
}

// Generate runs the binary with the prompt.
func (c *Command) Generate(ctx context.Context, prompt string) (string, error) {
	args := make([]string, 0, len(c.args)+1)
	placed := false
	for _, a := range c.args {
		if a == PromptPlaceholder {
			a = prompt
			placed = true
		}
		args = append(args, a)
	}
	if !placed {
		args = append(args, prompt)
	}

	out, err := c.executor.Execute(ctx, c.binary, args...)
	if err != nil {
		err = fmt.Errorf("run %s: %w", c.binary, err)
		if isMissingBinary(err) {
			return "", rejected(err)
		}
		return "", err
	}
	return out, nil
}
