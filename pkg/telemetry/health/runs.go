package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoRunYet is reported by RunTracker.Check before the first run finishes.
var ErrNoRunYet = errors.New("no sweep has finished yet")

// RunTracker remembers the outcome of the most recent sweep.
type RunTracker struct {
	mu       sync.RWMutex
	finished time.Time
	lastErr  error
	runs     int

	// requireRun makes Check fail until the first run has finished.
	requireRun bool
}

// NewRunTracker returns a RunTracker. With requireRun set, readiness waits
// for the first sweep, which suits schedules that run on start.
func NewRunTracker(requireRun bool) *RunTracker {
	return &RunTracker{requireRun: requireRun}
}

// Record stores the outcome of a run.
func (t *RunTracker) Record(finished time.Time, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.finished = finished
	t.lastErr = err
	t.runs++
}

// LastRun is the outcome of the most recent run.
type LastRun struct {
	Finished time.Time
	Err      error
}

// Last returns the most recent run. ok is false before the first run.
func (t *RunTracker) Last() (run LastRun, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return LastRun{Finished: t.finished, Err: t.lastErr}, t.runs > 0
}

// Check reports the last run's failure, if any.
func (t *RunTracker) Check(ctx context.Context) error {
	last, ok := t.Last()
	if !ok {
		if t.requireRun {
			return ErrNoRunYet
		}
		return nil
	}
	if last.Err != nil {
		return fmt.Errorf("last sweep at %s failed: %w", last.Finished.UTC().Format(time.RFC3339), last.Err)
	}
	return nil
}
