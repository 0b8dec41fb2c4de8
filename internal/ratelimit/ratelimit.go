// Package ratelimit throttles sensitive operations such as password reset
// emails, keyed by caller (client IP or target address).
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether another event for key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
