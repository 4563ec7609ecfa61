package sweeper

import (
	"context"

	"pagesweep-hq/pagesweep/pkg/pages"
)

// Deleter removes a single deployment.
type Deleter interface {
	DeleteDeployment(ctx context.Context, project, id string) error
}

// Outcome is what the Executor did with a delete decision.
type Outcome int

const (
	// OutcomeDeleted means the deployment was deleted.
	OutcomeDeleted Outcome = iota + 1
	// OutcomeDryRun means the deletion was only reported.
	OutcomeDryRun
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeDryRun:
		return "dry_run"
	default:
		return "unknown"
	}
}

// Executor acts on delete decisions.
type Executor struct {
	deleter Deleter
	dryRun  bool
}

// NewExecutor returns an Executor. In dry-run mode the deleter is never called.
func NewExecutor(deleter Deleter, dryRun bool) *Executor {
	return &Executor{deleter: deleter, dryRun: dryRun}
}

// Execute deletes d, or reports what would be deleted in dry-run mode.
//
// Cancellation is honoured before the call starts. Once started, the delete
// runs detached from ctx's cancellation so it is never abandoned halfway.
// Failures are returned as *DeleteError.
func (e *Executor) Execute(ctx context.Context, project string, d pages.Deployment) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if e.dryRun {
		return OutcomeDryRun, nil
	}

	if err := e.deleter.DeleteDeployment(context.WithoutCancel(ctx), project, d.ID); err != nil {
		return 0, &DeleteError{Project: project, DeploymentID: d.ID, Cause: err}
	}
	return OutcomeDeleted, nil
}
