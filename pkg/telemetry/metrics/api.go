package metrics

import (
	"strconv"
	"time"

	"pagesweep-hq/pagesweep/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics tracks calls to the Cloudflare API.
//
// Metrics:
//   - pagesweep_api_requests_total: requests by method and status code
//   - pagesweep_api_request_duration_seconds: request latency by method
type APIMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewAPIMetrics creates and registers API metrics with the provided registry.
func NewAPIMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *APIMetrics {
	am := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "api_requests_total",
				Help:      "Cloudflare API requests by method and status code",
			},
			[]string{"method", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "api_request_duration_seconds",
				Help:      "Cloudflare API request latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
	}

	registry.MustRegister(am.requestsTotal, am.requestDuration)
	return am
}

// RecordRequest records a single API request.
func (am *APIMetrics) RecordRequest(method string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	am.requestsTotal.WithLabelValues(method, code).Inc()
	am.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
