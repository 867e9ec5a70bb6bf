package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per identifier within a window.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (Result, error)
}
