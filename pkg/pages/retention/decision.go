package retention

// Action is what the sweeper should do with a deployment.
type Action int

const (
	// ActionKeep leaves the deployment in place.
	ActionKeep Action = iota
	// ActionDelete removes the deployment.
	ActionDelete
)

// String returns "keep" or "delete".
func (a Action) String() string {
	if a == ActionDelete {
		return "delete"
	}
	return "keep"
}

// Reason identifies the rule that kept a deployment.
type Reason string

const (
	ReasonActiveAlias    Reason = "active alias"
	ReasonRecent         Reason = "recent"
	ReasonFirstSucceeded Reason = "first N succeeded"
	ReasonFirstFailed    Reason = "first N failed"
)

// Decision is the outcome of evaluating one deployment.
type Decision struct {
	Action Action

	// Reason is set for ActionKeep and empty for ActionDelete.
	Reason Reason

	// SuccessCount and FailedCount are the project counters after this
	// deployment was classified.
	SuccessCount int
	FailedCount  int
}

// Keep reports whether the deployment is retained.
func (d Decision) Keep() bool {
	return d.Action == ActionKeep
}

func keep(reason Reason) Decision {
	return Decision{Action: ActionKeep, Reason: reason}
}
