package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	name string
	args []string
	out  string
	err  error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func TestCommandPlaceholder(t *testing.T) {
	exec := &fakeExecutor{out: "generated"}
	c := NewCommand(exec, "llama-cli", []string{"-m", "model.gguf", "-p", PromptPlaceholder, "--temp", "0"})

	out, err := c.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "generated", out)
	assert.Equal(t, "llama-cli", exec.name)
	assert.Equal(t, []string{"-m", "model.gguf", "-p", "summarize this", "--temp", "0"}, exec.args)
}

func TestCommandAppendsPrompt(t *testing.T) {
	exec := &fakeExecutor{out: "x"}
	c := NewCommand(exec, "ollama", []string{"run", "qwen2.5"})

	_, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "qwen2.5", "p"}, exec.args)
}

func TestCommandError(t *testing.T) {
	c := NewCommand(&fakeExecutor{err: errors.New("exit status 1")}, "bin", nil)
	_, err := c.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "run bin")
	assert.False(t, IsRejected(err))
}

func TestCommandMissingBinaryIsRejected(t *testing.T) {
	c := NewCommand(&fakeExecutor{err: fmt.Errorf("command 'bin' failed: %w", exec.ErrNotFound)}, "bin", nil)
	_, err := c.Generate(context.Background(), "p")
	assert.True(t, IsRejected(err))
}

func TestIsPermanentGeminiError(t *testing.T) {
	assert.True(t, isPermanentGeminiError(errors.New("Error 400, Message: bad request, Status: INVALID_ARGUMENT")))
	assert.True(t, isPermanentGeminiError(errors.New("Error 403, Status: PERMISSION_DENIED")))
	assert.False(t, isPermanentGeminiError(errors.New("Error 503, Status: UNAVAILABLE")))
	assert.False(t, isPermanentGeminiError(errors.New("connection reset by peer")))
}

func TestNewBackends(t *testing.T) {
	log := logger.Nop()

	m, err := New(config.ModelConfig{Backend: config.BackendCommand, Command: config.CommandConfig{Binary: "bin"}}, &fakeExecutor{}, log)
	require.NoError(t, err)
	assert.IsType(t, &Guard{}, m)

	_, err = New(config.ModelConfig{Backend: config.BackendOllama, Ollama: config.OllamaConfig{Model: "m"}}, nil, log)
	require.NoError(t, err)

	_, err = New(config.ModelConfig{Backend: config.BackendGemini}, nil, log)
	assert.Error(t, err)

	_, err = New(config.ModelConfig{Backend: "gpt"}, nil, log)
	assert.Error(t, err)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("Error 429, RESOURCE_EXHAUSTED")))
	assert.True(t, isQuotaError(errors.New("quota exceeded")))
	assert.False(t, isQuotaError(errors.New("invalid argument")))
}
