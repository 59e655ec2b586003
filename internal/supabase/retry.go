package supabase

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryConfig bounds the retry loop used for idempotent calls and for the
// post-login admin check, where backend authorization state may lag the
// freshly issued session.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	Jitter            float64
}

// DefaultRetryConfig returns the defaults used by the client.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    200 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
	}
}

// Backoff returns the delay before retry attempt (1-based).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	d := float64(c.InitialBackoff) * math.Pow(c.BackoffMultiplier, float64(attempt-1))
	if c.Jitter > 0 {
		d += d * c.Jitter * (rand.Float64()*2 - 1)
	}
	if max := float64(c.MaxBackoff); d > max {
		d = max
	}
	return time.Duration(d)
}

// retryable reports whether the error is worth retrying: transport failures
// and throttling/server statuses, never client errors.
func retryable(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		// Transport-level failure.
		return true
	}
	switch apiErr.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// withRetry runs fn, retrying retryable failures with exponential backoff.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !retryable(err) || attempt >= cfg.MaxRetries {
			return err
		}
		select {
		case <-time.After(cfg.Backoff(attempt + 1)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
