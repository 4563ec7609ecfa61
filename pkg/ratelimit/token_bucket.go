package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenBucket implements the token bucket rate limiting algorithm.
//
// The bucket allows bursts up to its capacity while keeping the average
// rate at the refill rate. Tokens are tracked fractionally so rates below
// one per second refill smoothly.
//
// TokenBucket is safe for concurrent use.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTokenBucket creates a bucket that starts full.
//
//	// 4 requests/sec average, burst up to 10
//	bucket := NewTokenBucket(10, 4)
func NewTokenBucket(capacity int64, refillRate float64) *TokenBucket {
	tb := &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		now:        time.Now,
		sleep:      sleepContext,
	}
	tb.lastRefill = tb.now()
	return tb
}

// Take consumes n tokens if they are available and reports whether it did.
func (tb *TokenBucket) Take(n int64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= float64(n) {
		tb.tokens -= float64(n)
		return true
	}
	return false
}

// Wait blocks until n tokens are available and consumes them. It returns
// ctx's error if ctx is done first.
func (tb *TokenBucket) Wait(ctx context.Context, n int64) error {
	if float64(n) > tb.capacity {
		return fmt.Errorf("ratelimit: %d tokens exceed bucket capacity %d", n, int64(tb.capacity))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tb.Take(n) {
			return nil
		}
		if err := tb.sleep(ctx, tb.TimeUntilAvailable(n)); err != nil {
			return err
		}
	}
}

// Remaining returns the number of whole tokens currently available.
func (tb *TokenBucket) Remaining() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return int64(tb.tokens)
}

// TimeUntilAvailable returns how long until n tokens will be available.
// Returns 0 if tokens are immediately available.
func (tb *TokenBucket) TimeUntilAvailable(n int64) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= float64(n) {
		return 0
	}
	if tb.refillRate <= 0 {
		return time.Duration(1<<63 - 1)
	}

	needed := float64(n) - tb.tokens
	return time.Duration(needed / tb.refillRate * float64(time.Second))
}

// refillLocked adds tokens for the time elapsed since the last refill.
// Caller must hold lock.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}

	tb.tokens += elapsed.Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
