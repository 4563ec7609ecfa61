package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span names.
const (
	SpanRun     = "sweep.run"
	SpanProject = "sweep.project"
	SpanDelete  = "sweep.delete"
)

// Attribute keys. The http.* and url.* keys follow the OpenTelemetry
// semantic conventions.
const (
	AttrRunID        = "pagesweep.run.id"
	AttrDryRun       = "pagesweep.dry_run"
	AttrProject      = "pagesweep.project"
	AttrDeploymentID = "pagesweep.deployment.id"
	AttrEnvironment  = "pagesweep.deployment.environment"
	AttrOutcome      = "pagesweep.outcome"

	AttrKept    = "pagesweep.kept"
	AttrDeleted = "pagesweep.deleted"
	AttrSkipped = "pagesweep.skipped"

	AttrHTTPMethod     = "http.request.method"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrHTTPRetry      = "http.request.resend_count"
	AttrURLPath        = "url.path"
)

// HTTPSpanName returns the name of a Cloudflare request span.
func HTTPSpanName(method string) string {
	return "HTTP " + method
}

// RunAttributes returns the attributes of a run span.
func RunAttributes(runID string, dryRun bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.Bool(AttrDryRun, dryRun),
	}
}

// DeploymentAttributes returns the attributes of a delete span.
func DeploymentAttributes(project, id, environment string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrProject, project),
		attribute.String(AttrDeploymentID, id),
	}
	if environment != "" {
		attrs = append(attrs, attribute.String(AttrEnvironment, environment))
	}
	return attrs
}

// CountAttributes returns the per-project counters set when a project span ends.
func CountAttributes(kept, deleted, skipped int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrKept, kept),
		attribute.Int(AttrDeleted, deleted),
		attribute.Int(AttrSkipped, skipped),
	}
}
