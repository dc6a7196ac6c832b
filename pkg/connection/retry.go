package connection

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is returned when every attempt failed. The last
// attempt's error is wrapped as well.
var ErrAttemptsExhausted = errors.New("connection attempts exhausted")

// DefaultAttempts is the number of tries made by Retry when none is set.
const DefaultAttempts = 5

// ConnectFunc is called to establish a connection.
// It should return nil on success or an error on failure.
type ConnectFunc func(ctx context.Context) error

// RetryConfig configures Retry.
type RetryConfig struct {
	// Attempts is the maximum number of calls (default 5).
	Attempts int

	// Backoff spaces the attempts (default NewBackoff()).
	Backoff *Backoff

	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retry calls connect until it succeeds, fails permanently, runs out of
// attempts, or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, connect ConnectFunc) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Backoff == nil {
		cfg.Backoff = NewBackoff()
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = connect(ctx); err == nil {
			cfg.Backoff.Reset()
			return nil
		}
		if p := (*permanentError)(nil); errors.As(err, &p) {
			return p.err
		}
		if attempt >= cfg.Attempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
		}

		delay := cfg.Backoff.Next()
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: last error: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
