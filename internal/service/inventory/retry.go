package inventory

import (
	"context"
	"time"
)

// RetryPolicy bounds the directory retries of the detail query.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy makes three attempts 300ms apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 300 * time.Millisecond}

// retry calls fn until it succeeds, returns an error retryable rejects, or
// the attempts run out. The wait between attempts honours ctx.
func retry[T any](ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = fn(ctx)
		if err == nil || !retryable(err) || attempt == attempts {
			return result, err
		}

		timer := time.NewTimer(policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, err
		case <-timer.C:
		}
	}
	return result, err
}
