package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a transient persistence failure. Callers retry with
// backoff; the stores themselves only retry when a policy is injected.
var ErrUnavailable = errors.New("store unavailable")

// RetryPolicy is a caller-supplied write retry: attempt count plus a backoff
// curve. The zero value performs exactly one attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// Do runs fn until it succeeds, attempts run out, or the context ends.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Backoff != nil {
			select {
			case <-time.After(p.Backoff(i)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
