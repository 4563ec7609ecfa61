// Package metrics provides Prometheus metrics for pagesweep.
//
// # Overview
//
// A Collector owns a private registry with two groups of metrics:
//
//   - Sweep metrics: decisions, delete outcomes, skipped items, projects and runs
//   - API metrics: Cloudflare request counts by status code and request latency
//
// The Collector satisfies the sweeper's Recorder interface and the Cloudflare
// client's RequestObserver interface, so wiring it in is a matter of passing
// it to both.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	sw := sweeper.New(client, policy, sweeper.WithRecorder(collector))
//	go collector.Serve(ctx, logger)
//
// # Cardinality
//
// The project label is capped at 1000 distinct values; later projects are
// recorded under "other".
package metrics
