package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote backend cannot be reached.
var ErrNetwork = errors.New("network error")

// transientError marks a backend failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// backoff retries an operation while it fails transiently, doubling the
// delay between attempts.
type backoff struct {
	attempts int
	delay    time.Duration
}

// redisBackoff covers a short Redis failover without stalling the CLI.
var redisBackoff = backoff{attempts: 3, delay: 100 * time.Millisecond}

func (b backoff) do(ctx context.Context, op func() error) error {
	delay := b.delay
	var err error
	for i := 0; i < b.attempts; i++ {
		if err = op(); err == nil || !isTransient(err) {
			return err
		}
		if i == b.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
