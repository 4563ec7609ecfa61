package sweeper

import (
	"time"

	"pagesweep-hq/pagesweep/pkg/pages/retention"
)

// ProjectResult counts what happened to one project's deployments.
type ProjectResult struct {
	Name    string `json:"name"`
	Kept    int    `json:"kept"`
	Deleted int    `json:"deleted"`
	DryRun  int    `json:"dry_run"`
	Skipped int    `json:"skipped"`

	// KeptByReason breaks Kept down by retention rule.
	KeptByReason map[retention.Reason]int `json:"kept_by_reason,omitempty"`

	// Error is set when the project was abandoned part way.
	Error string `json:"error,omitempty"`
}

func (r *ProjectResult) keep(reason retention.Reason) {
	r.Kept++
	if r.KeptByReason == nil {
		r.KeptByReason = make(map[retention.Reason]int)
	}
	r.KeptByReason[reason]++
}

// Summary describes a finished run.
type Summary struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Policy     retention.Policy `json:"policy"`
	Projects   []ProjectResult  `json:"projects"`

	// SkippedProjects counts listed projects without a name.
	SkippedProjects int `json:"skipped_projects"`

	// FilteredProjects counts projects outside the allow-list.
	FilteredProjects int `json:"filtered_projects"`

	// Error is the run's final error, if any.
	Error string `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Totals sums the per-project counters.
func (s *Summary) Totals() ProjectResult {
	total := ProjectResult{Name: "total"}
	for _, p := range s.Projects {
		total.Kept += p.Kept
		total.Deleted += p.Deleted
		total.DryRun += p.DryRun
		total.Skipped += p.Skipped
		for reason, n := range p.KeptByReason {
			if total.KeptByReason == nil {
				total.KeptByReason = make(map[retention.Reason]int)
			}
			total.KeptByReason[reason] += n
		}
	}
	return total
}

// Failed returns the number of projects that were abandoned.
func (s *Summary) Failed() int {
	n := 0
	for _, p := range s.Projects {
		if p.Error != "" {
			n++
		}
	}
	return n
}
