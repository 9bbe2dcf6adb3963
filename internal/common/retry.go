package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cardspend/internal/service"
)

var (
	// ErrRateLimit marks a 429 from the transaction service.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError overrides IsRetryable's classification of Err.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// backoff yields exponentially growing waits capped at max.
type backoff struct {
	next       time.Duration
	max        time.Duration
	multiplier float64
}

func newBackoff(opts service.RetryOptions) *backoff {
	return &backoff{next: opts.InitialDelay, max: opts.MaxDelay, multiplier: opts.Multiplier}
}

// wait returns the delay before the next attempt. A rate-limited
// failure jumps straight to the cap.
func (b *backoff) wait(err error) time.Duration {
	if errors.Is(err, ErrRateLimit) {
		b.next = b.max
	}
	d := b.next
	b.next = min(time.Duration(float64(b.next)*b.multiplier), b.max)
	return d
}

func withDefaults(opts service.RetryOptions) service.RetryOptions {
	def := service.DefaultRetryOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = def.InitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = def.Multiplier
	}
	return opts
}

// WithRetry runs operation until it succeeds, returns an error IsRetryable
// rejects, or runs out of attempts. Only use it for read-only requests.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withDefaults(opts)
	b := newBackoff(opts)

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		delay := b.wait(err)
		slog.Warn("Request failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
