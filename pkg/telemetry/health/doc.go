// Package health provides health check endpoints for the schedule command.
//
// The endpoints share the metrics listener:
//
//   - /health: liveness, 200 while the process is up
//   - /ready: readiness, 503 when any check fails
//   - /version: build information
//
// # Usage
//
//	tracker := health.NewRunTracker(cfg.Schedule.RunOnStart)
//	checker := health.New(0,
//	    health.Check{Name: "scheduler", Run: schedulerRunning},
//	    health.Check{Name: "last_run", Run: tracker.Check},
//	)
//
//	go collector.Serve(ctx, logger, func(mux *http.ServeMux) {
//	    health.Register(mux, checker, version, commit, buildTime)
//	})
//
// A failed sweep marks the process degraded until the next run succeeds.
package health
