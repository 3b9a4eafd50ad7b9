package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The llm client wraps network
// errors, 5xx responses, and rate limits in it; anything else aborts the
// retry loop on the first attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, a non-retryable error occurs, or attempts
// runs out. The wait between attempts starts at delay and doubles each time.
// A canceled context during a wait surfaces as ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff is Retry with the defaults the outbound clients use:
// three attempts starting from a one second wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
