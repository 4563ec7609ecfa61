package retention

import (
	"time"

	"pagesweep-hq/pagesweep/pkg/pages"
)

// Evaluator applies a Policy to the deployments of a single project. It owns
// the project's running counters; create a new Evaluator per project.
type Evaluator struct {
	policy Policy
	now    time.Time

	successCount int
	failedCount  int
}

// NewEvaluator creates an Evaluator with zeroed counters. now should be
// captured once per run so every project ages deployments against the same
// instant.
func NewEvaluator(policy Policy, now time.Time) *Evaluator {
	return &Evaluator{
		policy: policy,
		now:    now,
	}
}

// Evaluate classifies d and returns the decision for it. Deployments must be
// passed in listing order. A *SkipError is returned for deployments without an
// id or creation time; they do not affect the counters.
func (e *Evaluator) Evaluate(d pages.Deployment) (Decision, error) {
	if d.ID == "" {
		return Decision{}, &SkipError{Cause: ErrMissingID}
	}
	if d.CreatedOn.IsZero() {
		return Decision{}, &SkipError{DeploymentID: d.ID, Cause: ErrMissingCreatedOn}
	}

	success := d.IsSuccess()
	if success {
		e.successCount++
	} else {
		e.failedCount++
	}

	decision := e.decide(d, success)
	decision.SuccessCount = e.successCount
	decision.FailedCount = e.failedCount
	return decision, nil
}

// decide applies the rules in precedence order; the first match wins.
func (e *Evaluator) decide(d pages.Deployment, success bool) Decision {
	switch {
	case d.HasAlias():
		return keep(ReasonActiveAlias)
	case d.Age(e.now) <= e.policy.RecentWindow():
		return keep(ReasonRecent)
	case success && e.successCount <= e.policy.RetainSuccessCount:
		return keep(ReasonFirstSucceeded)
	case !success && e.failedCount <= e.policy.RetainFailedCount:
		return keep(ReasonFirstFailed)
	default:
		return Decision{Action: ActionDelete}
	}
}

// Counts returns the success and failed counters accumulated so far.
func (e *Evaluator) Counts() (success, failed int) {
	return e.successCount, e.failedCount
}

// Policy returns the policy the Evaluator applies.
func (e *Evaluator) Policy() Policy {
	return e.policy
}
