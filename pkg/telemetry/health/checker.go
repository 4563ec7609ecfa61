package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds each readiness check when New is given zero.
const DefaultTimeout = 5 * time.Second

// Check is one named readiness condition. Run returns nil when the condition
// holds.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// CheckResult is the outcome of one Check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message describes the problem for unhealthy checks.
	Message string `json:"message,omitempty"`
}

// Status is the body of the liveness and readiness endpoints.
type Status struct {
	// Status is "ok" for liveness, "ready" or "degraded" for readiness.
	Status string `json:"status"`

	// Checks holds one result per check (readiness only).
	Checks map[string]CheckResult `json:"checks,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Checker evaluates a fixed set of readiness checks.
type Checker struct {
	checks  []Check
	timeout time.Duration
	now     func() time.Time
}

// New returns a Checker for checks. A zero timeout means DefaultTimeout.
func New(timeout time.Duration, checks ...Check) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{checks: checks, timeout: timeout, now: time.Now}
}

// Liveness reports that the process is up.
func (c *Checker) Liveness() Status {
	return Status{Status: "ok", Timestamp: c.now()}
}

// Readiness runs the checks in order. Any failure makes the status
// "degraded".
func (c *Checker) Readiness(ctx context.Context) Status {
	status := Status{
		Status:    "ready",
		Checks:    make(map[string]CheckResult, len(c.checks)),
		Timestamp: c.now(),
	}
	for _, check := range c.checks {
		result := c.run(ctx, check)
		if result.Status != "ok" {
			status.Status = "degraded"
		}
		status.Checks[check.Name] = result
	}
	return status
}

func (c *Checker) run(ctx context.Context, check Check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- check.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return CheckResult{Status: "unhealthy", Message: err.Error()}
		}
		return CheckResult{Status: "ok"}
	case <-ctx.Done():
		return CheckResult{Status: "unhealthy", Message: "check timed out"}
	}
}
