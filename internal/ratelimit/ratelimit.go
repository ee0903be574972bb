// Package ratelimit bounds how many submissions an account may make per
// window. The algorithm is a fixed window that starts on the first check:
// one counter and one expiry per key, reset by the first check after expiry.
package ratelimit

import (
	"context"
	"math"
	"time"
)

const (
	DefaultMax    = 10
	DefaultWindow = 60 * time.Second
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool
	// Count is the number of admissions in the current window, including
	// this one when Allowed.
	Count int
	// RetryAfter is the time left until the window resets. Zero when Allowed.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below 1
// for a rejection.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}

	s := int(math.Ceil(d.RetryAfter.Seconds()))
	if s < 1 {
		return 1
	}

	return s
}

// Limiter admits or rejects one submission for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
