package domain

import (
	"fmt"
	"time"
)

// Default retry configuration values.
const (
	DefaultMaxAttempts = 12
	DefaultBackoffBase = time.Second
)

// BackoffFunc maps a 1-based attempt number to the delay before the next attempt.
type BackoffFunc func(attempt int) time.Duration

// RetryPolicy decides how many attempts a deployment gets, how long to wait
// between them and which results are worth retrying.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	Retryable   func(AttemptResult) bool
}

// DefaultRetryPolicy waits 2s, 4s, 8s, ... between up to 12 attempts and
// retries transport failures and any status >= 400.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     ExponentialBackoff(DefaultBackoffBase, 0),
		Retryable:   RetryOnFailure,
	}
}

// ExponentialBackoff returns base * 2^attempt, capped at max when max > 0.
func ExponentialBackoff(base, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		d := base
		for i := 0; i < attempt; i++ {
			if max > 0 && d >= max {
				return max
			}
			// Saturate rather than overflow for large attempt counts.
			if d > time.Duration(1<<62) {
				return d
			}
			d *= 2
		}
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// RetryOnFailure reports whether no response was received or the status is >= 400.
// Client errors such as 401 or 404 are retried as well; the deploy target may
// recover from rate limiting or a rolling restart.
func RetryOnFailure(r AttemptResult) bool {
	return r.Err != nil || r.StatusCode >= 400
}

// Validate checks that the policy can drive a deployment.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidConfig)
	}
	if p.Backoff == nil {
		return fmt.Errorf("%w: backoff function is required", ErrInvalidConfig)
	}
	if p.Retryable == nil {
		return fmt.Errorf("%w: retryable predicate is required", ErrInvalidConfig)
	}
	return nil
}
