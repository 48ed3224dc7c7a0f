package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

// errEmptyResponse marks a call that succeeded but produced no text.
var errEmptyResponse = errors.New("empty model response")

// GuardOptions bounds every model call.
type GuardOptions struct {
	// CallTimeout limits a single attempt. Zero disables the limit.
	CallTimeout time.Duration
	// MaxRetries is the number of extra attempts after the first failure.
	MaxRetries int
	// Backoff is the wait before the first retry; it doubles on every retry.
	Backoff time.Duration
	// RequestsPerSecond paces calls. Zero means unlimited.
	RequestsPerSecond float64
	// Serialize allows only one call at a time across all callers.
	Serialize bool
}

// Guard wraps a Model with timeouts, retries, pacing and mutual exclusion.
// Blank output is treated as a failure so it never reaches a downstream prompt.
type Guard struct {
	model   Model
	opts    GuardOptions
	limiter *rate.Limiter
	mu      sync.Mutex
	logger  logger.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewGuard wraps model.
func NewGuard(model Model, opts GuardOptions, log logger.Logger) *Guard {
	g := &Guard{
		model:  model,
		opts:   opts,
		logger: log,
		sleep:  sleepContext,
	}
	if opts.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return g
}

// Generate calls the wrapped model, retrying failed or empty responses. A rejected
// request is returned after the first attempt. Exhausted retries are reported as a
// retriable model failure.
func (g *Guard) Generate(ctx context.Context, prompt string) (string, error) {
	if g.opts.Serialize {
		g.mu.Lock()
		defer g.mu.Unlock()
	}

	attempts := g.opts.MaxRetries + 1
	var lastErr error

	for attempt := range attempts {
		if attempt > 0 {
			wait := g.opts.Backoff << (attempt - 1)
			g.logger.Warn(ctx, "Model call failed (attempt %d/%d): %v; retrying in %s", attempt, attempts, lastErr, wait)
			if err := g.sleep(ctx, wait); err != nil {
				return "", domainerrors.Model(err, "model call canceled")
			}
		}

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", domainerrors.Model(err, "model call canceled")
			}
		}

		out, err := g.call(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", domainerrors.Model(ctx.Err(), "model call canceled")
		}
		if IsRejected(err) {
			return "", domainerrors.Model(err, "model rejected the request")
		}
	}

	return "", domainerrors.Model(lastErr, fmt.Sprintf("model failed after %d attempts", attempts))
}

func (g *Guard) call(ctx context.Context, prompt string) (string, error) {
	if g.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.CallTimeout)
		defer cancel()
	}

	out, err := g.model.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptyResponse
	}
	return out, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
