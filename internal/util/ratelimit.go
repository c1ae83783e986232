package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces calls so that no more than the configured number happen
// per minute. Wait blocks the caller until the next slot opens.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewRateLimiter creates a RateLimiter allowing perMinute operations per
// minute. A non-positive perMinute disables pacing entirely.
func NewRateLimiter(perMinute int) *RateLimiter {
	var interval time.Duration
	if perMinute > 0 {
		interval = time.Minute / time.Duration(perMinute)
	}
	return &RateLimiter{interval: interval}
}

// Wait blocks until the caller may proceed or the context is cancelled. The
// first call never blocks.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.interval <= 0 {
		return ctx.Err()
	}

	rl.mu.Lock()
	now := time.Now()
	at := rl.next
	if at.Before(now) {
		at = now
	}
	rl.next = at.Add(rl.interval)
	rl.mu.Unlock()

	wait := time.Until(at)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
