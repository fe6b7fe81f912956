package llm

import (
	"context"
	"errors"
	"time"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

// Ensure Retrying implements the interface.
var _ driven.LLMService = (*Retrying)(nil)

// Default retry tuning.
const (
	// DefaultMaxRetries is the number of re-attempts after the first
	// failed call.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the first retry's wait; each further retry
	// doubles it.
	DefaultBaseDelay = 2000 * time.Millisecond
)

// RetryConfig tunes the retry decorator. Zero values select defaults.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Retrying wraps an LLM service with exponential-backoff retry. Only
// errors marked transient by the underlying client are retried; fatal
// errors and context cancellation surface immediately.
type Retrying struct {
	inner      driven.LLMService
	maxRetries int
	baseDelay  time.Duration
}

// NewRetrying wraps inner with retry behaviour.
func NewRetrying(inner driven.LLMService, cfg RetryConfig) *Retrying {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	return &Retrying{inner: inner, maxRetries: cfg.MaxRetries, baseDelay: cfg.BaseDelay}
}

// Generate calls the wrapped client, retrying transient failures with
// doubling delays.
func (r *Retrying) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var lastErr error
	delay := r.baseDelay

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Transient provider error, retry %d/%d in %s: %v",
				attempt, r.maxRetries, delay, lastErr)
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
			delay *= 2
		}

		result, err := r.inner.Generate(ctx, prompt, opts)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrProviderTransient) || ctx.Err() != nil {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ModelName returns the wrapped client's model name.
func (r *Retrying) ModelName() string {
	return r.inner.ModelName()
}

// Ping forwards to the wrapped client without retry: a reachability
// probe should report the first failure.
func (r *Retrying) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

// Close closes the wrapped client.
func (r *Retrying) Close() error {
	return r.inner.Close()
}
