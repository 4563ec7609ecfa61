package cloudflare

import (
	"encoding/json"
	"time"

	"pagesweep-hq/pagesweep/pkg/pages"
)

// envelope is the v4 response wrapper shared by every endpoint.
type envelope struct {
	Success    bool            `json:"success"`
	Errors     []ResponseError `json:"errors"`
	Messages   json.RawMessage `json:"messages,omitempty"`
	Result     json.RawMessage `json:"result"`
	ResultInfo *ResultInfo     `json:"result_info,omitempty"`
}

// ResultInfo carries the pagination details of a listing.
type ResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// pages returns the total page count, deriving it from the item count when
// the server left total_pages out.
func (ri *ResultInfo) pages() int {
	if ri == nil {
		return 0
	}
	if ri.TotalPages > 0 {
		return ri.TotalPages
	}
	if ri.TotalCount > 0 && ri.PerPage > 0 {
		return (ri.TotalCount + ri.PerPage - 1) / ri.PerPage
	}
	return 0
}

type apiProject struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Subdomain        string `json:"subdomain"`
	ProductionBranch string `json:"production_branch"`
	CreatedOn        string `json:"created_on"`
}

func (p apiProject) toProject() pages.Project {
	return pages.Project{
		ID:               p.ID,
		Name:             p.Name,
		Subdomain:        p.Subdomain,
		ProductionBranch: p.ProductionBranch,
		CreatedOn:        parseTime(p.CreatedOn),
	}
}

type apiStage struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type apiDeployment struct {
	ID                string    `json:"id"`
	ShortID           string    `json:"short_id"`
	ProjectName       string    `json:"project_name"`
	Environment       string    `json:"environment"`
	URL               string    `json:"url"`
	CreatedOn         string    `json:"created_on"`
	LatestStage       *apiStage `json:"latest_stage"`
	Aliases           []string  `json:"aliases"`
	IsSkipped         bool      `json:"is_skipped"`
	DeploymentTrigger struct {
		Metadata struct {
			Branch     string `json:"branch"`
			CommitHash string `json:"commit_hash"`
		} `json:"metadata"`
	} `json:"deployment_trigger"`
}

func (d apiDeployment) toDeployment(project string) pages.Deployment {
	dep := pages.Deployment{
		ID:          d.ID,
		ShortID:     d.ShortID,
		ProjectName: d.ProjectName,
		Environment: d.Environment,
		URL:         d.URL,
		CreatedOn:   parseTime(d.CreatedOn),
		IsSkipped:   d.IsSkipped,
		Aliases:     d.Aliases,
		Branch:      d.DeploymentTrigger.Metadata.Branch,
		CommitHash:  d.DeploymentTrigger.Metadata.CommitHash,
	}
	if dep.ProjectName == "" {
		dep.ProjectName = project
	}
	if d.LatestStage != nil {
		dep.Stage = pages.Stage{Name: d.LatestStage.Name, Status: pages.Status(d.LatestStage.Status)}
	}
	return dep
}

// parseTime returns the zero time for empty or malformed timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TokenStatus is the result of verifying an API token.
type TokenStatus struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ExpiresOn time.Time `json:"expires_on,omitempty"`
}
