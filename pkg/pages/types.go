package pages

import "time"

// Project is a Pages project as listed for an account.
type Project struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Subdomain        string    `json:"subdomain,omitempty"`
	ProductionBranch string    `json:"production_branch,omitempty"`
	CreatedOn        time.Time `json:"created_on,omitempty"`
}

// Status is the status of a deployment's latest stage.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailure  Status = "failure"
	StatusActive   Status = "active"
	StatusIdle     Status = "idle"
	StatusCanceled Status = "canceled"
	StatusUnknown  Status = ""
)

// String returns the status, or "unknown" when the platform reported none.
func (s Status) String() string {
	if s == StatusUnknown {
		return "unknown"
	}
	return string(s)
}

// Stage is the most recent build stage of a deployment.
type Stage struct {
	Name   string `json:"name,omitempty"`
	Status Status `json:"status"`
}

// Deployment is a single Pages deployment. Deployments are immutable; the
// only mutation the sweeper performs is deleting them.
//
// An empty ID or a zero CreatedOn means the platform omitted the field.
type Deployment struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"short_id,omitempty"`
	ProjectName string    `json:"project_name"`
	Environment string    `json:"environment"`
	URL         string    `json:"url"`
	CreatedOn   time.Time `json:"created_on"`
	Stage       Stage     `json:"latest_stage"`
	IsSkipped   bool      `json:"is_skipped"`
	Aliases     []string  `json:"aliases,omitempty"`
	Branch      string    `json:"branch,omitempty"`
	CommitHash  string    `json:"commit_hash,omitempty"`
}

// IsSuccess reports whether the latest stage succeeded.
func (d Deployment) IsSuccess() bool {
	return d.Stage.Status == StatusSuccess
}

// HasAlias reports whether the deployment is bound to an alias. Any entry
// counts, even a blank one.
func (d Deployment) HasAlias() bool {
	return len(d.Aliases) > 0
}

// Age returns how long before now the deployment was created.
func (d Deployment) Age(now time.Time) time.Duration {
	return now.Sub(d.CreatedOn)
}
