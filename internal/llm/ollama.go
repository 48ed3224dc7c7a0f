package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaTimeout = 5 * time.Minute
	envOllamaHost        = "OLLAMA_HOST"
	envOllamaAPIKey      = "OLLAMA_API_KEY"
)

// Ollama generates text with a local or hosted Ollama server through /api/generate.
type Ollama struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OllamaOption configures an Ollama model.
type OllamaOption func(*Ollama)

// WithOllamaBaseURL overrides the server address.
func WithOllamaBaseURL(baseURL string) OllamaOption {
	return func(o *Ollama) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			o.BaseURL = baseURL
		}
	}
}

// WithOllamaHTTPClient overrides the HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *Ollama) {
		if client != nil {
			o.HTTPClient = client
		}
	}
}

// NewOllama creates an Ollama model. Without a base URL option it reads OLLAMA_HOST and
// falls back to http://localhost:11434.
func NewOllama(model string, opts ...OllamaOption) *Ollama {
	baseURL := strings.TrimSpace(os.Getenv(envOllamaHost))
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	o := &Ollama{
		APIKey:     strings.TrimSpace(os.Getenv(envOllamaAPIKey)),
		Model:      strings.TrimSpace(model),
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultOllamaTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
}

// Generate sends a single non-streaming generate request. No context is passed
// back to the server, so calls never share history.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	if o.Model == "" {
		return "", rejected(fmt.Errorf("ollama: model is required"))
	}

	body, err := json.Marshal(generateRequest{Model: o.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("ollama: encode request: %w", err)
	}

	endpoint := strings.TrimRight(o.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.APIKey)
	}

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeOllamaError(resp)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}

	return out.Response, nil
}

// decodeOllamaError reads the error body. Statuses other than 408, 429 and 5xx are rejections.
func decodeOllamaError(resp *http.Response) error {
	err := readOllamaError(resp)
	if !transientStatus(resp.StatusCode) {
		return rejected(err)
	}
	return err
}

func readOllamaError(resp *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if readErr != nil {
		return fmt.Errorf("ollama: API status %d and failed to read error body: %w", resp.StatusCode, readErr)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Error) != "" {
		return fmt.Errorf("ollama: API status %d: %s", resp.StatusCode, strings.TrimSpace(envelope.Error))
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("ollama: API status %d: %s", resp.StatusCode, text)
}
