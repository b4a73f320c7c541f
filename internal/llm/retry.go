package llm

import (
	"context"
	"time"

	"codeberg.org/careerintel/server/internal/logger"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 1 * time.Second
	maxRetryDelay        = 8 * time.Second
)

type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

// fills unset knobs with the package defaults
func (p retryPolicy) orDefault() retryPolicy {
	if p.attempts <= 0 {
		p.attempts = defaultRetryAttempts
	}

	if p.baseDelay <= 0 {
		p.baseDelay = defaultRetryBase
	}

	return p
}

// runs fn up to attempts times with exponential backoff, doubling the
// delay each attempt up to maxRetryDelay. Only transient provider errors
// are retried; auth failures and malformed requests surface immediately.
func (p retryPolicy) do(ctx context.Context, op string, fn func() error) error {
	delay := p.baseDelay

	var err error

	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if !isRetryable(err) || attempt == p.attempts {
			return err
		}

		logger.Warn("retrying provider call",
			"operation", op,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	return err
}
