package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pagesweep-hq/pagesweep/pkg/cli"
	"pagesweep-hq/pagesweep/pkg/config"
	"pagesweep-hq/pagesweep/pkg/credentials"
	"pagesweep-hq/pagesweep/pkg/sweeper"
	"pagesweep-hq/pagesweep/pkg/telemetry/health"
	"pagesweep-hq/pagesweep/pkg/telemetry/metrics"
)

var scheduleFlags struct {
	retention     retentionFlags
	cron          string
	runOnStart    bool
	metrics       bool
	metricsListen string
	watch         bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the sweep on a cron schedule",
	Long: `Run the sweep repeatedly on a cron schedule until interrupted.

A run that is still going when the next tick fires causes that tick to be
skipped. When metrics are enabled they are served over HTTP for Prometheus,
next to /health, /ready and /version probes.
Changes to the config file's retention settings apply from the next run.

Examples:
  # Every night at 03:00 with metrics on 127.0.0.1:9090/metrics
  pagesweep schedule --metrics

  # Every six hours, without an immediate first run
  pagesweep schedule --cron "0 */6 * * *" --run-on-start=false`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	fs := scheduleCmd.Flags()
	addRetentionFlags(fs, &scheduleFlags.retention)
	fs.StringVar(&scheduleFlags.cron, "cron", config.DefaultCron, "cron expression or descriptor such as @daily")
	fs.BoolVar(&scheduleFlags.runOnStart, "run-on-start", config.DefaultRunOnStart, "run once immediately")
	fs.BoolVar(&scheduleFlags.metrics, "metrics", false, "serve Prometheus metrics")
	fs.StringVar(&scheduleFlags.metricsListen, "metrics-listen", config.DefaultMetricsListenAddress, "metrics listen address")
	fs.BoolVar(&scheduleFlags.watch, "watch", true, "reload retention settings when the config file changes")
}

// applyScheduleFlags applies every command-line override. It runs on the
// initial config and again on each reloaded one.
func applyScheduleFlags(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	applyGlobalFlags(cfg)
	if err := applyRetentionFlags(fs, &scheduleFlags.retention, cfg); err != nil {
		return err
	}
	if fs.Changed("cron") {
		cfg.Schedule.Cron = scheduleFlags.cron
	}
	if fs.Changed("run-on-start") {
		cfg.Schedule.RunOnStart = scheduleFlags.runOnStart
	}
	if fs.Changed("metrics") {
		cfg.Telemetry.Metrics.Enabled = scheduleFlags.metrics
	}
	if fs.Changed("metrics-listen") {
		cfg.Telemetry.Metrics.ListenAddress = scheduleFlags.metricsListen
	}
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyScheduleFlags(cmd, cfg); err != nil {
		return err
	}
	if _, err := sweeper.ParseSchedule(cfg.Schedule.Cron); err != nil {
		return cli.NewConfigError("schedule.cron", cfg.Schedule.Cron, err.Error())
	}
	source, err := finalizeConfig(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "credentials", source, "config", cfgFile)

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd), logger.Logger)
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	tracer, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracer(tracer, logger)

	sw, err := newSweeper(cfg, logger, collector, tracer)
	if err != nil {
		return err
	}

	if scheduleFlags.watch {
		if watcher, err := watchConfig(ctx, cmd, sw, logger.Logger); err != nil {
			logger.Warn("config reload disabled", "error", err)
		} else if watcher != nil {
			defer watcher.Stop()
		}
	}

	tracker := health.NewRunTracker(cfg.Schedule.RunOnStart)
	scheduler := sweeper.NewScheduler(sw, cfg.Schedule.Cron,
		sweeper.RunOnStart(cfg.Schedule.RunOnStart),
		sweeper.WithSchedulerLogger(logger.Logger),
		sweeper.OnResult(func(summary *sweeper.Summary, err error) {
			finished := time.Now()
			if summary != nil && !summary.FinishedAt.IsZero() {
				finished = summary.FinishedAt
			}
			tracker.Record(finished, err)
		}),
	)

	if collector.Enabled() {
		checker := newHealthChecker(scheduler, tracker)
		go func() {
			err := collector.Serve(ctx, logger.Logger, func(mux *http.ServeMux) {
				health.Register(mux, checker, Version, GitCommit, BuildDate)
			})
			if err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	scheduler.Stop()
	logger.Info("shutdown complete")
	return nil
}

// newHealthChecker reports the process ready while the scheduler runs and
// the last sweep succeeded.
func newHealthChecker(scheduler *sweeper.Scheduler, tracker *health.RunTracker) *health.Checker {
	return health.New(0,
		health.Check{Name: "scheduler", Run: func(context.Context) error {
			if !scheduler.IsRunning() {
				return errors.New("scheduler is not running")
			}
			return nil
		}},
		health.Check{Name: "last_run", Run: tracker.Check},
	)
}

// watchConfig reloads retention settings from the config file. It returns a
// nil watcher when there is no file to watch.
func watchConfig(ctx context.Context, cmd *cobra.Command, sw *sweeper.Sweeper, logger *slog.Logger) (*config.Watcher, error) {
	if _, err := os.Stat(cfgFile); err != nil {
		return nil, nil
	}

	watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger)
	if err != nil {
		return nil, err
	}
	watcher.SetPrepare(func(cfg *config.Config) error {
		if err := applyScheduleFlags(cmd, cfg); err != nil {
			return err
		}
		_, err := credentials.Resolve(&cfg.Cloudflare, credentials.NewStore(keyringService))
		return err
	})

	go func() {
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			if err := sw.SetPolicy(cfg.Retention.Policy()); err != nil {
				logger.Error("reloaded retention policy rejected", "error", err)
				return
			}
			sw.SetProjects(cfg.Retention.Projects)
			logger.Info("retention policy updated, applies from the next run",
				"retain_success_count", cfg.Retention.SuccessCount,
				"retain_failed_count", cfg.Retention.FailedCount,
				"retain_recent_days", cfg.Retention.RecentDays,
				"dry_run", cfg.Retention.DryRun,
			)
		})
		if err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
	return watcher, nil
}
