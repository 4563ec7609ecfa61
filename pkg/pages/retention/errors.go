package retention

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID marks a deployment listed without an id.
	ErrMissingID = errors.New("deployment has no id")

	// ErrMissingCreatedOn marks a deployment listed without a creation time.
	ErrMissingCreatedOn = errors.New("deployment has no created_on")
)

// SkipError reports a deployment that cannot be evaluated. Skipped
// deployments get no decision and leave the counters untouched.
type SkipError struct {
	DeploymentID string
	Cause        error
}

// Error implements the error interface.
func (e *SkipError) Error() string {
	if e.DeploymentID != "" {
		return fmt.Sprintf("skipping deployment %s: %v", e.DeploymentID, e.Cause)
	}
	return fmt.Sprintf("skipping deployment: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SkipError) Unwrap() error {
	return e.Cause
}
