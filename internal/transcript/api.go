package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/validation"
)

const (
	listPath  = "/api/v1/summaries.list"
	writePath = "/api/v1/summaries.write"

	defaultRetryBackoff = time.Second
)

// APIClient talks to the remote summaries.list / summaries.write endpoints.
type APIClient struct {
	baseURL    string
	token      string
	rawKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	validator  *validation.Validator
	logger     logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewAPIClient creates a client authenticated with token.
func NewAPIClient(cfg config.APIConfig, token string, log logger.Logger) *APIClient {
	c := &APIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		rawKey:     cfg.RawKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.Retries(),
		backoff:    defaultRetryBackoff,
		validator:  validation.New(),
		logger:     log,
		sleep:      sleepContext,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

type listInput struct {
	Key                       string `json:"key"`
	ExcludeTranscriptsWithKey string `json:"excludeTranscriptsWithKey,omitempty"`
}

type listResponse struct {
	Result struct {
		Data []Record `json:"data"`
	} `json:"result"`
}

// List returns the raw transcripts that have no summary under summaryKey.
// Records without an id are logged and left out.
func (c *APIClient) List(ctx context.Context, summaryKey string) ([]Record, error) {
	input, err := json.Marshal(listInput{Key: c.rawKey, ExcludeTranscriptsWithKey: summaryKey})
	if err != nil {
		return nil, fmt.Errorf("encode list input: %w", err)
	}
	endpoint := c.baseURL + listPath + "?" + url.Values{"input": {string(input)}}.Encode()

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domainerrors.Upstream(err, "decode list response")
	}

	records := make([]Record, 0, len(resp.Result.Data))
	for _, r := range resp.Result.Data {
		if err := c.validator.Validate(r); err != nil {
			c.logger.Warn(ctx, "Ignoring malformed transcript record: %v", err)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// Write uploads one summary. The raw-text key is read-only and rejected locally.
func (c *APIClient) Write(ctx context.Context, entry Entry) error {
	if err := c.validator.Validate(entry); err != nil {
		return err
	}
	if entry.SummaryKey == c.rawKey {
		return domainerrors.Validationf("summaries with key %q are read-only", c.rawKey)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, c.baseURL+writePath, payload); err != nil {
		return fmt.Errorf("write summary %s/%s: %w", entry.TranscriptID, entry.SummaryKey, err)
	}
	return nil
}

// do sends a request, retrying transport errors, 429 and 5xx with doubling backoff.
func (c *APIClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := range attempts {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.logger.Warn(ctx, "%s %s failed (attempt %d/%d): %v; retrying in %s", method, endpoint, attempt, attempts, lastErr, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, domainerrors.Upstream(err, "request canceled")
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, domainerrors.Upstream(err, "request canceled")
			}
		}

		body, retry, err := c.once(ctx, method, endpoint, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, domainerrors.Upstream(lastErr, fmt.Sprintf("%s %s", method, endpoint))
}

func (c *APIClient) once(ctx context.Context, method, endpoint string, payload []byte) (body []byte, retry bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, 64*1024*1024))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		text := strings.TrimSpace(string(body))
		if len(text) > 512 {
			text = text[:512]
		}
		return nil, retry, fmt.Errorf("status %d: %s", resp.StatusCode, text)
	}

	return body, false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
