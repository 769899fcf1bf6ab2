package worker

import (
	"context"
	"time"
)

const maxAttempts = 3

// retryBase is the first backoff step; tests shorten it.
var retryBase = time.Second

// withRetry calls fn up to attempts times with exponential backoff (base, 2×base, …).
func withRetry(ctx context.Context, attempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := retryBase << uint(i-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
