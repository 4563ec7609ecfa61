package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"pagesweep-hq/pagesweep/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// otherProject is the label used once the project cardinality limit is hit.
const otherProject = "other"

// Collector owns every pagesweep metric and the registry they live in.
// It implements the recorder interfaces of the sweeper and the Cloudflare
// client, so one Collector observes a whole process.
//
// All Record methods are no-ops when metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Sweep decision and outcome metrics
	sweepMetrics *SweepMetrics

	// Cloudflare API call metrics
	apiMetrics *APIMetrics

	// Cardinality tracking for the project label
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "pagesweep",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		sweepMetrics:       NewSweepMetrics(cfg, registry),
		apiMetrics:         NewAPIMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

// Enabled reports whether metrics are being recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

func (c *Collector) projectLabel(project string) string {
	if !c.cardinalityLimiter.Allow(project) {
		return otherProject
	}
	return project
}

// RecordDecision records one retention decision.
//
// Parameters:
//   - project: Pages project name
//   - action: "keep" or "delete"
//   - reason: the keep reason, empty for deletes
func (c *Collector) RecordDecision(project, action, reason string) {
	if !c.config.Enabled {
		return
	}
	if reason == "" {
		reason = "none"
	}
	c.sweepMetrics.decisionsTotal.WithLabelValues(c.projectLabel(project), action, reason).Inc()
}

// RecordDeletion records the outcome of acting on a delete decision:
// "deleted", "dry_run" or "error".
func (c *Collector) RecordDeletion(project, result string) {
	if !c.config.Enabled {
		return
	}
	c.sweepMetrics.deletionsTotal.WithLabelValues(c.projectLabel(project), result).Inc()
}

// RecordSkip records an item that could not be evaluated.
func (c *Collector) RecordSkip(reason string) {
	if !c.config.Enabled {
		return
	}
	c.sweepMetrics.skippedTotal.WithLabelValues(reason).Inc()
}

// RecordProject records a finished project: "ok", "error" or "filtered".
func (c *Collector) RecordProject(result string) {
	if !c.config.Enabled {
		return
	}
	c.sweepMetrics.projectsTotal.WithLabelValues(result).Inc()
}

// RecordRun records a finished sweep run.
func (c *Collector) RecordRun(duration time.Duration, err error) {
	if !c.config.Enabled {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case isCanceled(err):
		result = "canceled"
	default:
		result = "error"
	}

	c.sweepMetrics.runsTotal.WithLabelValues(result).Inc()
	c.sweepMetrics.runDuration.Observe(duration.Seconds())
	c.sweepMetrics.lastRun.SetToCurrentTime()
	if err == nil {
		c.sweepMetrics.lastSuccess.SetToCurrentTime()
	}
}

// ObserveRequest records one Cloudflare API call. statusCode is 0 when the
// request failed before a response arrived.
func (c *Collector) ObserveRequest(method string, statusCode int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.apiMetrics.RecordRequest(method, statusCode, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used. Values already seen are
// always allowed; new values are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[label]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
