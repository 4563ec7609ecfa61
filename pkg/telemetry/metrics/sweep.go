package metrics

import (
	"pagesweep-hq/pagesweep/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics tracks retention decisions and their outcomes.
//
// Metrics:
//   - pagesweep_decisions_total: decisions by project, action and reason
//   - pagesweep_deletions_total: delete outcomes by project and result
//   - pagesweep_skipped_total: items that could not be evaluated
//   - pagesweep_projects_total: processed projects by result
//   - pagesweep_runs_total: finished runs by result
//   - pagesweep_run_duration_seconds: run duration
//   - pagesweep_last_run_timestamp_seconds / pagesweep_last_success_timestamp_seconds
type SweepMetrics struct {
	decisionsTotal *prometheus.CounterVec
	deletionsTotal *prometheus.CounterVec
	skippedTotal   *prometheus.CounterVec
	projectsTotal  *prometheus.CounterVec
	runsTotal      *prometheus.CounterVec

	runDuration prometheus.Histogram
	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewSweepMetrics creates and registers sweep metrics with the provided registry.
func NewSweepMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Retention decisions by project, action and reason",
			},
			[]string{"project", "action", "reason"},
		),

		deletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "deletions_total",
				Help:      "Outcomes of delete decisions by project and result",
			},
			[]string{"project", "result"},
		),

		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "skipped_total",
				Help:      "Projects and deployments skipped because of missing fields",
			},
			[]string{"reason"},
		),

		projectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "projects_total",
				Help:      "Projects processed by result",
			},
			[]string{"result"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Sweep runs by result",
			},
			[]string{"result"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of sweep runs in seconds",
				// A run pages through every deployment of an account.
				Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34m
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last finished run",
			},
		),

		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that finished without errors",
			},
		),
	}

	registry.MustRegister(
		sm.decisionsTotal,
		sm.deletionsTotal,
		sm.skippedTotal,
		sm.projectsTotal,
		sm.runsTotal,
		sm.runDuration,
		sm.lastRun,
		sm.lastSuccess,
	)

	return sm
}
