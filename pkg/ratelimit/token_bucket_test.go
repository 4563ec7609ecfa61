package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when the bucket sleeps.
type fakeClock struct {
	mu    sync.Mutex
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	c.advance(d)
	return nil
}

func newTestBucket(capacity int64, rate float64) (*TokenBucket, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	tb := NewTokenBucket(capacity, rate)
	tb.now = clock.now
	tb.sleep = clock.sleep
	tb.lastRefill = clock.now()
	return tb, clock
}

func TestTokenBucket_Take(t *testing.T) {
	bucket, _ := newTestBucket(10, 10)

	if !bucket.Take(5) {
		t.Error("Expected to take 5 tokens from full bucket")
	}
	if remaining := bucket.Remaining(); remaining != 5 {
		t.Errorf("Expected 5 remaining, got %d", remaining)
	}
	if !bucket.Take(5) {
		t.Error("Expected to take remaining 5 tokens")
	}
	if bucket.Take(1) {
		t.Error("Expected bucket to be empty")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		elapsed time.Duration
		want    int64
	}{
		{"one token", 10, 100 * time.Millisecond, 1},
		{"fractional rate", 0.5, 3 * time.Second, 1},
		{"capped at capacity", 10, time.Minute, 10},
		{"not yet", 4, 200 * time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, clock := newTestBucket(10, tt.rate)
			bucket.Take(10)

			clock.advance(tt.elapsed)
			if got := bucket.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTokenBucket_TimeUntilAvailable(t *testing.T) {
	bucket, _ := newTestBucket(10, 4)

	if d := bucket.TimeUntilAvailable(1); d != 0 {
		t.Errorf("full bucket wait = %v, want 0", d)
	}
	bucket.Take(10)
	if d := bucket.TimeUntilAvailable(2); d != 500*time.Millisecond {
		t.Errorf("wait for 2 tokens at 4/s = %v, want 500ms", d)
	}
}

func TestTokenBucket_WaitPacesRequests(t *testing.T) {
	bucket, clock := newTestBucket(2, 4)

	for i := 0; i < 4; i++ {
		if err := bucket.Wait(context.Background(), 1); err != nil {
			t.Fatalf("Wait() #%d error = %v", i, err)
		}
	}

	// The burst of two passes immediately; the next two wait 250ms each.
	if len(clock.slept) != 2 {
		t.Fatalf("slept %v, want two waits", clock.slept)
	}
	for _, d := range clock.slept {
		if d != 250*time.Millisecond {
			t.Errorf("slept %v, want 250ms", d)
		}
	}
}

func TestTokenBucket_WaitCanceled(t *testing.T) {
	bucket, _ := newTestBucket(1, 1)
	bucket.Take(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bucket.Wait(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestTokenBucket_WaitExceedsCapacity(t *testing.T) {
	bucket, _ := newTestBucket(2, 1)
	if err := bucket.Wait(context.Background(), 3); err == nil {
		t.Error("Wait() for more than capacity should fail")
	}
}

func TestTokenBucket_RealClock(t *testing.T) {
	bucket := NewTokenBucket(1, 100)
	bucket.Take(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := bucket.Wait(ctx, 1); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Wait() returned after %v, want about 10ms", elapsed)
	}
}

func TestTokenBucket_Concurrent(t *testing.T) {
	bucket, _ := newTestBucket(100, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if bucket.Take(1) {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if taken != 100 {
		t.Errorf("taken = %d, want 100", taken)
	}
}
