package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

// Gemini generates text with the Gemini API, rotating through API keys on quota errors.
type Gemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	clients    map[string]*genai.Client
	model      string
	logger     logger.Logger
}

// NewGemini creates a Gemini model over the supplied API keys.
func NewGemini(model string, apiKeys []string, log logger.Logger) (*Gemini, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("gemini: at least one API key is required")
	}
	return &Gemini{
		apiKeys: apiKeys,
		clients: make(map[string]*genai.Client),
		model:   model,
		logger:  log,
	}, nil
}

// Generate sends the prompt to Gemini and returns the concatenated text parts.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key, index := g.key()

		client, err := g.client(ctx, key)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(index)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", index+1)
				g.rotateKey(index)
				lastErr = err
				continue
			}
			if isPermanentGeminiError(err) {
				return "", rejected(fmt.Errorf("generate content: %w", err))
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *Gemini) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *Gemini) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.clients[key] = c
	return c, nil
}

// rotateKey advances past the key at index unless another caller already did.
func (g *Gemini) rotateKey(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == index {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
