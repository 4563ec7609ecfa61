package config

import "time"

// Default values for configuration fields.
const (
	// DefaultConfigFile is read when present and no path is given.
	DefaultConfigFile = "pagesweep.yaml"

	// Cloudflare defaults
	DefaultBaseURL      = "https://api.cloudflare.com/client/v4"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = time.Second
	DefaultPerPage      = 25
	DefaultRateLimit    = 4.0
	DefaultRateBurst    = 10

	// Retention defaults
	DefaultSuccessCount = 20
	DefaultFailedCount  = 10
	DefaultRecentDays   = 30

	// Schedule defaults
	DefaultCron       = "0 3 * * *"
	DefaultRunOnStart = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	// Metrics defaults
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "pagesweep"

	// Tracing defaults
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingService     = "pagesweep"
	DefaultOTLPInsecure       = true
	DefaultOTLPTimeout        = 10 * time.Second
)

// Default returns a configuration with every default applied. Loading a file
// unmarshals on top of it, so values omitted from the file keep their
// defaults while explicit zeros are preserved.
func Default() *Config {
	return &Config{
		Cloudflare: CloudflareConfig{
			BaseURL:      DefaultBaseURL,
			Timeout:      DefaultTimeout,
			MaxRetries:   DefaultMaxRetries,
			RetryBackoff: DefaultRetryBackoff,
			PerPage:      DefaultPerPage,
			RateLimit:    DefaultRateLimit,
			RateBurst:    DefaultRateBurst,
		},
		Retention: RetentionConfig{
			SuccessCount: DefaultSuccessCount,
			FailedCount:  DefaultFailedCount,
			RecentDays:   DefaultRecentDays,
		},
		Schedule: ScheduleConfig{
			Cron:       DefaultCron,
			RunOnStart: DefaultRunOnStart,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Metrics: MetricsConfig{
				ListenAddress: DefaultMetricsListenAddress,
				Path:          DefaultMetricsPath,
				Namespace:     DefaultMetricsNamespace,
			},
			Tracing: TracingConfig{
				Sampler:     DefaultTracingSampler,
				SampleRatio: DefaultTracingSampleRatio,
				Exporter:    DefaultTracingExporter,
				Endpoint:    DefaultTracingEndpoint,
				ServiceName: DefaultTracingService,
				OTLP: OTLPConfig{
					Insecure: DefaultOTLPInsecure,
					Timeout:  DefaultOTLPTimeout,
				},
			},
		},
	}
}

// ApplyDefaults fills fields left empty, e.g. by an explicit `base_url: ""`
// in the file. Numeric fields are not touched because zero is meaningful.
func ApplyDefaults(cfg *Config) {
	// Cloudflare defaults
	if cfg.Cloudflare.BaseURL == "" {
		cfg.Cloudflare.BaseURL = DefaultBaseURL
	}
	if cfg.Cloudflare.Timeout == 0 {
		cfg.Cloudflare.Timeout = DefaultTimeout
	}
	if cfg.Cloudflare.RetryBackoff == 0 {
		cfg.Cloudflare.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.Cloudflare.PerPage == 0 {
		cfg.Cloudflare.PerPage = DefaultPerPage
	}
	if cfg.Cloudflare.RateBurst == 0 {
		cfg.Cloudflare.RateBurst = DefaultRateBurst
	}

	// Schedule defaults
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultCron
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
