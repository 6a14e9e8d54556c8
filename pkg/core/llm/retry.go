package llm

import (
	"errors"
	"strings"
	"time"

	"randomwalk/pkg/core/faults"
)

// Retry defaults. The base delay doubles per attempt, capped at MaxDelay.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 2 * time.Second
	DefaultMaxDelay    = 60 * time.Second
)

// RetryPolicy bounds the gateway's retry behavior: attempt ceiling, backoff
// schedule, and the predicate deciding which failures are worth retrying.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy retries rate-limited calls only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Retryable:   IsRateLimit,
	}
}

// Backoff returns the wait before the given zero-based retry attempt:
// BaseDelay doubled per attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// IsRateLimit reports whether an error is a rate-limit response. Matches
// HTTP 429 and Gemini RESOURCE_EXHAUSTED/quota errors.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var f *faults.Fault
	if errors.As(err, &f) && f.Status == 429 {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}
