package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pagesweep-hq/pagesweep/pkg/cli"
	"pagesweep-hq/pagesweep/pkg/config"
	"pagesweep-hq/pagesweep/pkg/credentials"
	"pagesweep-hq/pagesweep/pkg/pages/cloudflare"
	"pagesweep-hq/pagesweep/pkg/sweeper"
	"pagesweep-hq/pagesweep/pkg/telemetry/logging"
	"pagesweep-hq/pagesweep/pkg/telemetry/metrics"
	"pagesweep-hq/pagesweep/pkg/telemetry/tracing"
)

// tracerShutdownTimeout bounds the final span flush.
const tracerShutdownTimeout = 5 * time.Second

var (
	// Global flags
	cfgFile     string
	globalFlags struct {
		quiet              bool
		silent             bool
		logLevel           string
		logFormat          string
		redactProjectNames bool
	}
)

// keyringService is the keyring service tokens are stored under.
var keyringService = credentials.DefaultService

var rootCmd = &cobra.Command{
	Use:   "pagesweep",
	Short: "Delete stale Cloudflare Pages deployments",
	Long: `pagesweep walks every Cloudflare Pages project of an account and deletes
stale deployments according to a retention policy.

A deployment is kept when any of these hold:
  - it is served under an alias (branch or custom domain)
  - it is younger than the recent window
  - it is among the newest N successful deployments of its project
  - it is among the newest N failed deployments of its project

Credentials come from the config file, CLOUDFLARE_API_TOKEN (or
CLOUDFLARE_API_KEY and CLOUDFLARE_EMAIL), or the OS keyring ("pagesweep auth login").`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the matching status.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile, "config file path (optional unless set)")
	pf.BoolVarP(&globalFlags.quiet, "quiet", "q", false, "suppress all log output")
	pf.BoolVar(&globalFlags.silent, "silent", false, "alias for --quiet")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "log format (console, text, json)")
	pf.BoolVar(&globalFlags.redactProjectNames, "redact-project-names", false, "mask project names in output")
	_ = pf.MarkHidden("silent")
}

// loadConfig reads the config file and environment and applies the global
// flags. The result is not validated.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	applyGlobalFlags(cfg)
	return cfg, nil
}

func applyGlobalFlags(cfg *config.Config) {
	logCfg := &cfg.Telemetry.Logging
	if globalFlags.quiet || globalFlags.silent {
		logCfg.Quiet = true
	}
	if globalFlags.logLevel != "" {
		logCfg.Level = globalFlags.logLevel
	}
	if globalFlags.logFormat != "" {
		logCfg.Format = globalFlags.logFormat
	}
	if globalFlags.redactProjectNames {
		logCfg.RedactProjectNames = true
	}
}

// newLogger builds the process logger. Credentials are registered as
// secrets so they never reach the output.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	return logging.New(logging.Config{
		Level:     logCfg.Level,
		Format:    logCfg.Format,
		Quiet:     logCfg.Quiet,
		AddSource: logCfg.AddSource,
		Secrets: []string{
			cfg.Cloudflare.APIToken,
			cfg.Cloudflare.APIKey,
			cfg.Cloudflare.Email,
		},
	})
}

func newRenderer(cfg *config.Config) *sweeper.Renderer {
	logCfg := cfg.Telemetry.Logging
	color := !logCfg.Quiet &&
		(logCfg.Format == "" || logCfg.Format == string(logging.FormatConsole)) &&
		logging.DetectColor(os.Stderr)

	return sweeper.NewRenderer(sweeper.RenderOptions{
		Color:              color,
		RedactProjectNames: logCfg.RedactProjectNames,
	})
}

func newClient(cfg *config.Config, logger *logging.Logger, extra ...cloudflare.Option) (*cloudflare.Client, error) {
	cf := cfg.Cloudflare
	opts := append([]cloudflare.Option{cloudflare.WithLogger(logger.Logger)}, extra...)
	if cfg.Telemetry.Logging.RedactProjectNames {
		opts = append(opts, cloudflare.WithRedactedProjectNames())
	}

	return cloudflare.NewClient(cloudflare.Config{
		BaseURL:      cf.BaseURL,
		AccountID:    cf.AccountID,
		APIToken:     cf.APIToken,
		APIKey:       cf.APIKey,
		Email:        cf.Email,
		Timeout:      cf.Timeout,
		MaxRetries:   cf.MaxRetries,
		RetryBackoff: cf.RetryBackoff,
		PerPage:      cf.PerPage,
		UserAgent:    "pagesweep/" + Version,
		RateLimit:    cf.RateLimit,
		RateBurst:    cf.RateBurst,
	}, opts...)
}

// newTracer builds the process tracer. It is a noop unless tracing is
// enabled.
func newTracer(cfg *config.Config) (*tracing.Tracer, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	return tracer, nil
}

// shutdownTracer flushes pending spans. It runs after the command context
// is canceled, so it gets a context of its own.
func shutdownTracer(tracer *tracing.Tracer, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
	defer cancel()
	if err := tracer.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}

// newSweeper wires a Cloudflare client, the metrics collector, the tracer
// and the sweeper together.
// newSweeper wires the client and the sweeper. A nil collector leaves
// both without metrics.
func newSweeper(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector, tracer *tracing.Tracer) (*sweeper.Sweeper, error) {
	clientOpts := []cloudflare.Option{cloudflare.WithTracer(tracer.Tracer())}
	sweepOpts := []sweeper.Option{
		sweeper.WithLogger(logger.Logger),
		sweeper.WithRenderer(newRenderer(cfg)),
		sweeper.WithTracer(tracer.Tracer()),
		sweeper.WithProjects(cfg.Retention.Projects),
	}
	if collector != nil {
		clientOpts = append(clientOpts, cloudflare.WithObserver(collector))
		sweepOpts = append(sweepOpts, sweeper.WithRecorder(collector))
	}

	client, err := newClient(cfg, logger, clientOpts...)
	if err != nil {
		return nil, err
	}
	return sweeper.New(client, cfg.Retention.Policy(), sweepOpts...), nil
}

// finalizeConfig completes the credentials from the token file or the
// keyring when the config carries none, then validates the configuration.
// It returns where the credentials came from.
func finalizeConfig(cfg *config.Config) (credentials.Source, error) {
	source, credErr := credentials.Resolve(&cfg.Cloudflare, credentials.NewStore(keyringService))
	if err := config.Validate(cfg); err != nil {
		if credErr != nil {
			return credentials.SourceNone, errors.Join(err, credErr)
		}
		return credentials.SourceNone, err
	}
	return source, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
