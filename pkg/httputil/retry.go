package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient fetch failure (timeouts, 5xx responses).
// [Retry] only tries again for errors that wrap one.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails permanently, or attempts run out.
// The wait starts at delay and doubles between attempts. Cancelling ctx
// stops the wait and returns the context's cause.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := range max(attempts, 1) {
		if i > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return context.Cause(ctx)
			case <-t.C:
			}
			delay *= 2
		}
		if err = fn(); err == nil || !errors.As(err, new(*RetryableError)) {
			return err
		}
	}
	return err
}
