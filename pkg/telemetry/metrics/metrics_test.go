package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pagesweep-hq/pagesweep/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:       true,
		Namespace:     "test",
		ListenAddress: "127.0.0.1:0",
		Path:          "/metrics",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("Enabled() = false")
	}
}

func TestCollector_RecordDecision(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordDecision("blog", "keep", "recent")
	collector.RecordDecision("blog", "keep", "recent")
	collector.RecordDecision("blog", "delete", "")

	if got := testutil.ToFloat64(collector.sweepMetrics.decisionsTotal.WithLabelValues("blog", "keep", "recent")); got != 2 {
		t.Errorf("keep/recent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.sweepMetrics.decisionsTotal.WithLabelValues("blog", "delete", "none")); got != 1 {
		t.Errorf("delete/none = %v, want 1", got)
	}
}

func TestCollector_RecordDeletionAndSkip(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordDeletion("blog", "deleted")
	collector.RecordDeletion("blog", "error")
	collector.RecordSkip("missing_created_on")
	collector.RecordProject("ok")

	if got := testutil.ToFloat64(collector.sweepMetrics.deletionsTotal.WithLabelValues("blog", "deleted")); got != 1 {
		t.Errorf("deleted = %v", got)
	}
	if got := testutil.ToFloat64(collector.sweepMetrics.skippedTotal.WithLabelValues("missing_created_on")); got != 1 {
		t.Errorf("skipped = %v", got)
	}
	if got := testutil.ToFloat64(collector.sweepMetrics.projectsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("projects = %v", got)
	}
}

func TestCollector_RecordRun(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"success", nil, "success"},
		{"error", errors.New("boom"), "error"},
		{"canceled", fmt.Errorf("fetch page 2: %w", context.Canceled), "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewCollector(testConfig(), nil)
			collector.RecordRun(3*time.Second, tt.err)

			if got := testutil.ToFloat64(collector.sweepMetrics.runsTotal.WithLabelValues(tt.result)); got != 1 {
				t.Errorf("runs{%s} = %v, want 1", tt.result, got)
			}
			success := testutil.ToFloat64(collector.sweepMetrics.lastSuccess)
			if (tt.err == nil) != (success > 0) {
				t.Errorf("last success gauge = %v for err %v", success, tt.err)
			}
		})
	}
}

func TestCollector_ObserveRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.ObserveRequest(http.MethodGet, 200, 100*time.Millisecond)
	collector.ObserveRequest(http.MethodDelete, 0, time.Second)

	if got := testutil.ToFloat64(collector.apiMetrics.requestsTotal.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("GET 200 = %v", got)
	}
	if got := testutil.ToFloat64(collector.apiMetrics.requestsTotal.WithLabelValues("DELETE", "error")); got != 1 {
		t.Errorf("DELETE error = %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordDecision("blog", "keep", "recent")
	collector.RecordRun(time.Second, nil)

	if got := testutil.CollectAndCount(collector.sweepMetrics.decisionsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d decision series", got)
	}
}

func TestCollector_ProjectCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	for _, p := range []string{"a", "b", "c", "d"} {
		collector.RecordDecision(p, "keep", "recent")
	}

	if got := testutil.ToFloat64(collector.sweepMetrics.decisionsTotal.WithLabelValues(otherProject, "keep", "recent")); got != 2 {
		t.Errorf("other = %v, want 2", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for _, label := range []string{"label1", "label2", "label3"} {
		if !limiter.Allow(label) {
			t.Errorf("Expected %s to be allowed", label)
		}
	}
	if limiter.Allow("label4") {
		t.Error("Expected fourth label to be rejected")
	}
	if !limiter.Allow("label1") {
		t.Error("Expected existing label to be allowed")
	}
	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordDecision("blog", "delete", "")

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_decisions_total{action="delete",project="blog",reason="none"} 1`) {
		t.Errorf("metrics output missing decision counter:\n%s", body)
	}
}

func TestCollector_ServeStopsOnCancel(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	registered := make(chan struct{})
	go func() {
		done <- collector.Serve(ctx, slog.New(slog.DiscardHandler), func(mux *http.ServeMux) {
			mux.HandleFunc("/health", func(http.ResponseWriter, *http.Request) {})
			close(registered)
		})
	}()

	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("register hook was not called")
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
