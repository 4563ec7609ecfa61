package sweeper

import (
	"fmt"
	"strings"
	"time"

	"pagesweep-hq/pagesweep/pkg/pages"
	"pagesweep-hq/pagesweep/pkg/pages/retention"
)

// TimeLayout is the timestamp layout used in rendered lines.
const TimeLayout = "2006-01-02 15:04:05"

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// RenderOptions configures a Renderer.
type RenderOptions struct {
	// Color wraps labels in ANSI colors.
	Color bool

	// RedactProjectNames masks all but the first two characters of project
	// names, wherever they appear in a rendered line, URL or error.
	RedactProjectNames bool

	// Location is the zone timestamps are shown in. Defaults to time.Local.
	Location *time.Location
}

// Renderer turns decisions into one-line human summaries. It holds no state
// beyond its options and is safe for concurrent use.
type Renderer struct {
	opts RenderOptions
}

// NewRenderer returns a Renderer.
func NewRenderer(opts RenderOptions) *Renderer {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Renderer{opts: opts}
}

// Project returns the project name as it should be displayed.
func (r *Renderer) Project(name string) string {
	if !r.opts.RedactProjectNames {
		return name
	}
	return pages.MaskName(name)
}

// Scrub masks every occurrence of project in s. Pages hostnames embed the
// project name, as in <hash>.<project>.pages.dev.
func (r *Renderer) Scrub(project, s string) string {
	if !r.opts.RedactProjectNames {
		return s
	}
	return pages.MaskIn(project, s)
}

// Error returns err with project masked in its message. The result still
// unwraps to err.
func (r *Renderer) Error(project string, err error) error {
	if !r.opts.RedactProjectNames {
		return err
	}
	return pages.RedactError(project, err)
}

// KeepLabel describes why a deployment was kept.
func (r *Renderer) KeepLabel(d pages.Deployment, decision retention.Decision, policy retention.Policy) string {
	var label string
	switch decision.Reason {
	case retention.ReasonActiveAlias:
		if aliases := nonBlank(d.Aliases); len(aliases) > 0 {
			label = fmt.Sprintf("(skip active deployments %s)", strings.Join(aliases, ", "))
		} else {
			label = "(skip active deployment)"
		}
	case retention.ReasonRecent:
		label = fmt.Sprintf("(skip recent %dd)", policy.RetainRecentDays)
	case retention.ReasonFirstSucceeded:
		label = fmt.Sprintf("(skip first %d succeed)", policy.RetainSuccessCount)
	case retention.ReasonFirstFailed:
		label = fmt.Sprintf("(skip first %d failed)", policy.RetainFailedCount)
	default:
		label = "(skip)"
	}
	return r.paint(colorGreen, label)
}

// OutcomeLabel describes what happened to a deleted deployment.
func (r *Renderer) OutcomeLabel(o Outcome) string {
	if o == OutcomeDryRun {
		return r.paint(colorYellow, "(dry run)")
	}
	return r.paint(colorRed, "(delete)")
}

// Line renders "[project] label created env url (status)".
func (r *Renderer) Line(project string, d pages.Deployment, label string) string {
	line := fmt.Sprintf("%s %s %s %s (%s)",
		label,
		d.CreatedOn.In(r.opts.Location).Format(TimeLayout),
		orDash(d.Environment),
		orDash(d.URL),
		Status(d),
	)
	return "[" + r.Project(project) + "] " + r.Scrub(project, line)
}

// Attrs returns the structured fields logged alongside a rendered line. The
// project itself travels in the context.
func (r *Renderer) Attrs(project string, d pages.Deployment) []any {
	return []any{
		"deployment_id", d.ID,
		"environment", d.Environment,
		"url", r.Scrub(project, d.URL),
		"status", Status(d),
		"created_on", d.CreatedOn,
	}
}

// Status returns the displayed status: "skipped" for skipped builds,
// otherwise the latest stage status.
func Status(d pages.Deployment) string {
	if d.IsSkipped {
		return "skipped"
	}
	return d.Stage.Status.String()
}

func (r *Renderer) paint(code, s string) string {
	if !r.opts.Color {
		return s
	}
	return code + s + colorReset
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
