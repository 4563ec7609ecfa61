package sweeper

import "fmt"

// DeleteError is returned when the platform rejects or fails a delete.
type DeleteError struct {
	Project      string
	DeploymentID string
	Cause        error
}

// Error implements the error interface.
func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete deployment %s of project %s: %v", e.DeploymentID, e.Project, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *DeleteError) Unwrap() error {
	return e.Cause
}

// ProjectError wraps a failure that ended the processing of one project.
type ProjectError struct {
	Project string
	Cause   error
}

// Error implements the error interface.
func (e *ProjectError) Error() string {
	return fmt.Sprintf("project %s: %v", e.Project, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProjectError) Unwrap() error {
	return e.Cause
}
