package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter gates calls against a per-minute token budget and a per-minute
// request budget. Both buckets must have room for a call to proceed.
type RateLimiter struct {
	tokens   *bucket
	requests *bucket
}

var _ Limiter = (*RateLimiter)(nil)

// New creates a limiter replenishing the given budgets once per minute.
// A zero budget disables the corresponding bucket.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		tokens:   newBucket(tokensPerMinute, time.Minute),
		requests: newBucket(requestsPerMinute, time.Minute),
	}
}

// TryConsume atomically checks capacity and consumes if available.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	return rl.tokens.consume(numTokens) && rl.requests.consume(1)
}

// TimeUntilAvailable returns how long until the given tokens plus one
// request slot would be available. Read-only.
func (rl *RateLimiter) TimeUntilAvailable(tokens int) time.Duration {
	tokenWait := rl.tokens.timeUntil(tokens)
	requestWait := rl.requests.timeUntil(1)
	if tokenWait > requestWait {
		return tokenWait
	}
	return requestWait
}

// WaitAndConsume waits until capacity is available (up to maxWait, zero
// meaning no limit), then consumes it.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	wait := rl.TimeUntilAvailable(tokens)

	if wait > 0 {
		if maxWait > 0 && wait > maxWait {
			return fmt.Errorf("rate limit wait time %v exceeds max wait %v", wait, maxWait)
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !rl.TryConsume(tokens) {
		return fmt.Errorf("failed to acquire tokens after waiting")
	}

	return nil
}

// bucket is a token bucket refilled continuously across its interval.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	remaining  int
	interval   time.Duration
	lastRefill time.Time
}

func newBucket(capacity int, interval time.Duration) *bucket {
	return &bucket{
		capacity:   capacity,
		remaining:  capacity,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

// refillLocked credits tokens replenished since the last refill. Callers
// hold b.mu.
func (b *bucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	if elapsed >= b.interval {
		b.remaining = b.capacity
		b.lastRefill = now
		return
	}
	credit := int(float64(b.capacity) * (float64(elapsed) / float64(b.interval)))
	if credit > 0 {
		b.remaining = min(b.capacity, b.remaining+credit)
		b.lastRefill = now
	}
}

func (b *bucket) consume(tokens int) bool {
	if b.capacity <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())
	if tokens <= b.remaining {
		b.remaining -= tokens
		return true
	}
	return false
}

func (b *bucket) timeUntil(tokens int) time.Duration {
	if b.capacity <= 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	remaining := b.remaining
	if elapsed >= b.interval {
		remaining = b.capacity
	} else if elapsed > 0 {
		credit := int(float64(b.capacity) * (float64(elapsed) / float64(b.interval)))
		remaining = min(b.capacity, remaining+credit)
	}

	if tokens <= remaining {
		return 0
	}

	needed := tokens - remaining
	rate := float64(b.capacity) / float64(b.interval)
	wait := time.Duration(float64(needed) / rate)

	// Small buffer so the wait lands past the refill, not on it.
	return wait + wait/10
}
