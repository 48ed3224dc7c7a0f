package llm

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/pkg/executor"
)

// New builds the configured backend wrapped in a Guard. The returned Model is meant to
// be created once and shared by every transcript run.
func New(cfg config.ModelConfig, exec executor.Executor, log logger.Logger) (Model, error) {
	var backend Model

	switch cfg.Backend {
	case config.BackendGemini:
		g, err := NewGemini(cfg.Gemini.Model, cfg.Gemini.APIKeys, log)
		if err != nil {
			return nil, err
		}
		backend = g
	case config.BackendOllama:
		backend = NewOllama(cfg.Ollama.Model, WithOllamaBaseURL(cfg.Ollama.BaseURL))
	case config.BackendCommand:
		backend = NewCommand(exec, cfg.Command.Binary, cfg.Command.Args)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}

	return NewGuard(backend, GuardOptions{
		CallTimeout:       cfg.CallTimeout,
		MaxRetries:        cfg.Retries(),
		Backoff:           cfg.Backoff(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Serialize:         cfg.Serialized(),
	}, log), nil
}
