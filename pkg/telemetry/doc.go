// Package telemetry groups the observability packages used by pagesweep.
//
//   - logging: slog loggers with console, text and json output and secret redaction
//   - metrics: Prometheus counters and histograms for runs, decisions and API calls
//   - tracing: OpenTelemetry spans for runs, projects, deletes and API requests
//   - health: liveness and readiness endpoints for the schedule command
//
// Metrics, tracing and health are off by default. A one-off delete run only
// logs; the schedule command can additionally serve metrics and probes and
// export traces.
package telemetry
