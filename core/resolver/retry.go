package resolver

import (
	"context"
	"time"

	"tubemp3/logger"
)

// RetryPolicy retries an operation a fixed number of times with a fixed
// delay between attempts. No backoff growth, no jitter. It is applied only
// to the streaming-download path's metadata fetch; other call sites perform
// a single attempt and surface the failure directly.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy matches the upstream behavior: 3 attempts spaced 2s apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: 2 * time.Second}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned when all attempts fail.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		logger.Warn("attempt failed, retrying",
			logger.Int("attempt", attempt),
			logger.Int("maxAttempts", attempts),
			logger.ErrorField(err))
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
