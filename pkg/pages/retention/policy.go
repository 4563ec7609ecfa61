package retention

import (
	"fmt"
	"time"
)

// Default retention values.
const (
	DefaultRetainSuccessCount = 20
	DefaultRetainFailedCount  = 10
	DefaultRetainRecentDays   = 30
)

// Policy configures which deployments survive a sweep. Counts apply to each
// project independently.
type Policy struct {
	// RetainSuccessCount keeps the first N successful deployments so that
	// instant rollback stays possible.
	RetainSuccessCount int `json:"retain_success_count"`

	// RetainFailedCount keeps the first N failed deployments so their build
	// logs remain reachable.
	RetainFailedCount int `json:"retain_failed_count"`

	// RetainRecentDays keeps every deployment created within the last N days.
	RetainRecentDays int `json:"retain_recent_days"`

	// DryRun logs what would be deleted without deleting anything.
	DryRun bool `json:"dry_run"`
}

// DefaultPolicy returns the default retention policy.
func DefaultPolicy() Policy {
	return Policy{
		RetainSuccessCount: DefaultRetainSuccessCount,
		RetainFailedCount:  DefaultRetainFailedCount,
		RetainRecentDays:   DefaultRetainRecentDays,
	}
}

// Validate rejects negative thresholds.
func (p Policy) Validate() error {
	if p.RetainSuccessCount < 0 {
		return fmt.Errorf("retain success count must be non-negative, got %d", p.RetainSuccessCount)
	}
	if p.RetainFailedCount < 0 {
		return fmt.Errorf("retain failed count must be non-negative, got %d", p.RetainFailedCount)
	}
	if p.RetainRecentDays < 0 {
		return fmt.Errorf("retain recent days must be non-negative, got %d", p.RetainRecentDays)
	}
	return nil
}

// RecentWindow returns the age under which a deployment counts as recent.
func (p Policy) RecentWindow() time.Duration {
	return time.Duration(p.RetainRecentDays) * 24 * time.Hour
}
