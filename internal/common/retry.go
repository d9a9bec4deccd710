package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrMaxRetries indicates that all retry attempts have been exhausted.
var ErrMaxRetries = errors.New("max retries exceeded")

// RetryableError wraps an error with an explicit retry decision,
// overriding the default classification in IsRetryable.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// RetryOptions configures WithRetry. Documents are retried on a fixed
// delay rather than a backoff curve: the only retryable condition is a
// transient permission error, which either clears quickly or not at all.
type RetryOptions struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryOptions returns the retry policy used for document
// processing: three attempts, two seconds apart.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
	}
}

// WithRetry executes an operation, retrying retryable failures up to
// opts.MaxAttempts total attempts with a fixed delay between them.
// Non-retryable errors are returned immediately.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = 2 * time.Second
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
		}

		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", opts.Delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Delay):
		}
	}

	return ErrMaxRetries
}
