package config

import (
	"time"

	"pagesweep-hq/pagesweep/pkg/pages/retention"
)

// Config is the root configuration structure for pagesweep.
// It contains the Cloudflare account settings, the retention policy, the
// schedule for unattended runs, and telemetry settings.
type Config struct {
	// Cloudflare contains API credentials and HTTP client settings.
	Cloudflare CloudflareConfig `yaml:"cloudflare"`

	// Retention contains the policy that decides which deployments survive.
	Retention RetentionConfig `yaml:"retention"`

	// Schedule controls the schedule command.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CloudflareConfig contains the API credentials and client settings.
type CloudflareConfig struct {
	// APIToken is a scoped API token with Pages edit permission.
	// Environment: CLOUDFLARE_API_TOKEN
	APIToken string `yaml:"api_token"`

	// APITokenFile is a file holding the API token, e.g. a mounted secret.
	// It is read only when no token or key is configured.
	// Environment: CLOUDFLARE_API_TOKEN_FILE
	APITokenFile string `yaml:"api_token_file"`

	// APIKey is the legacy global API key, used with Email when no token is set.
	// Environment: CLOUDFLARE_API_KEY
	APIKey string `yaml:"api_key"`

	// Email is the account email that owns APIKey.
	// Environment: CLOUDFLARE_EMAIL
	Email string `yaml:"email"`

	// AccountID is the account whose projects are swept. Required.
	// Environment: CLOUDFLARE_ACCOUNT_ID
	AccountID string `yaml:"account_id"`

	// BaseURL is the v4 API root.
	// Default: "https://api.cloudflare.com/client/v4"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each HTTP request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries for GET requests. Deletes are
	// never retried.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the first retry delay; it doubles on each attempt.
	// Default: 1s
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// PerPage is the listing page size.
	// Default: 25
	PerPage int `yaml:"per_page"`

	// RateLimit is the sustained request rate per second. Cloudflare allows
	// 1200 requests per five minutes; 0 disables client-side pacing.
	// Default: 4
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is how many requests may be sent back to back.
	// Default: 10
	RateBurst int `yaml:"rate_burst"`
}

// HasCredentials reports whether a token or a key/email pair is configured.
func (c CloudflareConfig) HasCredentials() bool {
	return c.APIToken != "" || (c.APIKey != "" && c.Email != "")
}

// RetentionConfig contains the retention policy.
type RetentionConfig struct {
	// SuccessCount is how many successful deployments to keep per project.
	// Default: 20
	SuccessCount int `yaml:"success_count"`

	// FailedCount is how many non-successful deployments to keep per project.
	// Default: 10
	FailedCount int `yaml:"failed_count"`

	// RecentDays keeps every deployment younger than this many days.
	// Default: 30
	RecentDays int `yaml:"recent_days"`

	// DryRun logs decisions without deleting anything.
	// Default: false
	DryRun bool `yaml:"dry_run"`

	// Projects restricts the sweep to these project names. Empty means all.
	Projects []string `yaml:"projects"`
}

// Policy converts the section into a retention policy.
func (r RetentionConfig) Policy() retention.Policy {
	return retention.Policy{
		RetainSuccessCount: r.SuccessCount,
		RetainFailedCount:  r.FailedCount,
		RetainRecentDays:   r.RecentDays,
		DryRun:             r.DryRun,
	}
}

// ScheduleConfig contains settings for the schedule command.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression or a descriptor such
	// as "@daily" or "@every 6h".
	// Default: "0 3 * * *"
	Cron string `yaml:"cron"`

	// RunOnStart runs one sweep immediately when the scheduler starts.
	// Default: true
	RunOnStart bool `yaml:"run_on_start"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "console", "json", "text"
	// Default: "console"
	Format string `yaml:"format"`

	// Quiet suppresses all log output.
	// Default: false
	Quiet bool `yaml:"quiet"`

	// RedactProjectNames masks project names in rendered decision lines.
	// Default: false
	RedactProjectNames bool `yaml:"redact_project_names"`

	// AddSource includes file:line in json and text logs.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the schedule command serves metrics.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "pagesweep"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Each run, each
// project and each Cloudflare request becomes a span.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "pagesweep"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
