package config

import (
	"fmt"
	"net/url"
	"strings"

	"pagesweep-hq/pagesweep/pkg/telemetry/logging"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "retention.success_count").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together. The cron expression is checked by the scheduler.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCloudflare(&cfg.Cloudflare)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateCloudflare validates credentials and client settings.
func validateCloudflare(cfg *CloudflareConfig) []FieldError {
	var errs []FieldError

	if cfg.AccountID == "" {
		errs = append(errs, FieldError{
			Field:   "cloudflare.account_id",
			Message: "account id is required (CLOUDFLARE_ACCOUNT_ID)",
		})
	}

	if !cfg.HasCredentials() {
		switch {
		case cfg.APIKey != "":
			errs = append(errs, FieldError{
				Field:   "cloudflare.email",
				Message: "email is required with an API key (CLOUDFLARE_EMAIL)",
			})
		default:
			errs = append(errs, FieldError{
				Field:   "cloudflare.api_token",
				Message: "an API token (CLOUDFLARE_API_TOKEN) or an API key and email are required",
			})
		}
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "cloudflare.base_url",
			Message: fmt.Sprintf("invalid URL %q", cfg.BaseURL),
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.max_retries",
			Message: "max retries must be non-negative",
		})
	}
	if cfg.RetryBackoff < 0 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.retry_backoff",
			Message: "retry backoff must be positive",
		})
	}
	if cfg.PerPage < 1 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.per_page",
			Message: "per page must be at least 1",
		})
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.rate_limit",
			Message: "rate limit must be non-negative (0 disables it)",
		})
	}
	if cfg.RateBurst < 1 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.rate_burst",
			Message: "rate burst must be at least 1",
		})
	}

	return errs
}

// validateRetention validates the retention policy.
func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.SuccessCount < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.success_count",
			Message: "must be non-negative",
		})
	}
	if cfg.FailedCount < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.failed_count",
			Message: "must be non-negative",
		})
	}
	if cfg.RecentDays < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.recent_days",
			Message: "must be non-negative",
		})
	}
	for i, p := range cfg.Projects {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("retention.projects[%d]", i),
				Message: "project name must not be empty",
			})
		}
	}

	return errs
}

// validateTelemetry validates logging, metrics and tracing configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}
	if _, err := logging.ParseFormat(cfg.Logging.Format); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be console, json, or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "path must start with /",
			})
		}
	}

	if cfg.Tracing.Enabled {
		errs = append(errs, validateTracing(&cfg.Tracing)...)
	}

	return errs
}

// validateTracing validates tracing configuration. It only runs when tracing
// is enabled.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Sampler),
		})
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: fmt.Sprintf("sample ratio must be between 0.0 and 1.0, got %g", cfg.SampleRatio),
		})
	}
	if cfg.Exporter != "otlp" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("unsupported exporter %q (must be otlp)", cfg.Exporter),
		})
	}
	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}
