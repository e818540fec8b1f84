package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Settings sizes a limiter: PerMinute is the sustained rate and Burst the
// largest number of requests admitted back to back.
type Settings struct {
	PerMinute int
	Burst     int
}

// Noop admits everything. Used when rate limiting is disabled.
type Noop struct{}

func (Noop) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
