package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Values in the file override the defaults. The result is neither validated
// nor affected by environment variables; use Load for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// Load builds the configuration from an optional file and the environment.
//
// The loading sequence is:
//  1. Start from Default()
//  2. Overlay the YAML file at path, if it exists; a missing file is an error
//     only when required is true
//  3. Apply environment variable overrides
//
// Validation is left to the caller so command-line flags can be applied
// first.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case !required && errors.Is(err, fs.ErrNotExist):
			// optional default file
		default:
			return nil, err
		}
	}

	if errs := applyEnvOverrides(cfg, os.LookupEnv); len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}

	return cfg, nil
}

// LoadWithEnvOverrides loads and validates a configuration in one step.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path, true)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

// applyEnvOverrides applies environment variable overrides to the
// configuration. Credentials use the CLOUDFLARE_* names the Cloudflare tooling
// uses; every other field uses PAGESWEEP_SECTION_FIELD.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) []FieldError {
	env := envReader{lookup: lookup}

	// Cloudflare overrides
	env.str("CLOUDFLARE_API_TOKEN", &cfg.Cloudflare.APIToken)
	env.str("CLOUDFLARE_API_TOKEN_FILE", &cfg.Cloudflare.APITokenFile)
	env.str("CLOUDFLARE_API_KEY", &cfg.Cloudflare.APIKey)
	env.str("CLOUDFLARE_EMAIL", &cfg.Cloudflare.Email)
	env.str("CLOUDFLARE_ACCOUNT_ID", &cfg.Cloudflare.AccountID)
	env.str("PAGESWEEP_CLOUDFLARE_BASE_URL", &cfg.Cloudflare.BaseURL)
	env.duration("PAGESWEEP_CLOUDFLARE_TIMEOUT", &cfg.Cloudflare.Timeout)
	env.integer("PAGESWEEP_CLOUDFLARE_MAX_RETRIES", &cfg.Cloudflare.MaxRetries)
	env.duration("PAGESWEEP_CLOUDFLARE_RETRY_BACKOFF", &cfg.Cloudflare.RetryBackoff)
	env.integer("PAGESWEEP_CLOUDFLARE_PER_PAGE", &cfg.Cloudflare.PerPage)
	env.float("PAGESWEEP_CLOUDFLARE_RATE_LIMIT", &cfg.Cloudflare.RateLimit)
	env.integer("PAGESWEEP_CLOUDFLARE_RATE_BURST", &cfg.Cloudflare.RateBurst)

	// Retention overrides
	env.integer("PAGESWEEP_RETENTION_SUCCESS_COUNT", &cfg.Retention.SuccessCount)
	env.integer("PAGESWEEP_RETENTION_FAILED_COUNT", &cfg.Retention.FailedCount)
	env.integer("PAGESWEEP_RETENTION_RECENT_DAYS", &cfg.Retention.RecentDays)
	env.boolean("PAGESWEEP_RETENTION_DRY_RUN", &cfg.Retention.DryRun)
	env.list("PAGESWEEP_RETENTION_PROJECTS", &cfg.Retention.Projects)

	// Schedule overrides
	env.str("PAGESWEEP_SCHEDULE_CRON", &cfg.Schedule.Cron)
	env.boolean("PAGESWEEP_SCHEDULE_RUN_ON_START", &cfg.Schedule.RunOnStart)

	// Telemetry overrides
	env.str("PAGESWEEP_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.str("PAGESWEEP_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.boolean("PAGESWEEP_TELEMETRY_LOGGING_QUIET", &cfg.Telemetry.Logging.Quiet)
	env.boolean("PAGESWEEP_TELEMETRY_LOGGING_REDACT_PROJECT_NAMES", &cfg.Telemetry.Logging.RedactProjectNames)
	env.boolean("PAGESWEEP_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.str("PAGESWEEP_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	env.str("PAGESWEEP_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	env.str("PAGESWEEP_TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	env.boolean("PAGESWEEP_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.str("PAGESWEEP_TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	env.float("PAGESWEEP_TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	env.str("PAGESWEEP_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.boolean("PAGESWEEP_TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.OTLP.Insecure)

	return env.errs
}

// envReader collects parse failures instead of silently ignoring them.
type envReader struct {
	lookup lookupFunc
	errs   []FieldError
}

func (r *envReader) get(key string) (string, bool) {
	val, ok := r.lookup(key)
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return strings.TrimSpace(val), true
}

func (r *envReader) fail(key, val, kind string) {
	r.errs = append(r.errs, FieldError{
		Field:   key,
		Message: fmt.Sprintf("%q is not a valid %s", val, kind),
	})
}

func (r *envReader) str(key string, dst *string) {
	if val, ok := r.get(key); ok {
		*dst = val
	}
}

func (r *envReader) integer(key string, dst *int) {
	if val, ok := r.get(key); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			r.fail(key, val, "integer")
			return
		}
		*dst = i
	}
}

func (r *envReader) boolean(key string, dst *bool) {
	if val, ok := r.get(key); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			r.fail(key, val, "boolean")
			return
		}
		*dst = b
	}
}

func (r *envReader) float(key string, dst *float64) {
	if val, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			r.fail(key, val, "number")
			return
		}
		*dst = f
	}
}

func (r *envReader) duration(key string, dst *time.Duration) {
	if val, ok := r.get(key); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			r.fail(key, val, "duration")
			return
		}
		*dst = d
	}
}

func (r *envReader) list(key string, dst *[]string) {
	if val, ok := r.get(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*dst = items
	}
}
