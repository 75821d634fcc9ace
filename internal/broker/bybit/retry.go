package bybit

import (
	"context"
	"math"
	"strings"
	"time"
)

// RetryConfig holds configuration for the API retry mechanism.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the retry configuration used for broker
// API calls. Order placement is never retried here; retries apply to
// the read-side calls where a transient failure is harmless.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// retry executes fn with exponential backoff on retryable errors.
func retry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == config.MaxRetries || !isRetryableError(err) {
			break
		}

		delay := config.InitialDelay
		if attempt > 0 {
			delay = time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt)))
		}
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// isRetryableError checks whether an API error is worth retrying.
func isRetryableError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"timeout", "rate limit", "too many requests", "connection", "temporarily"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
