// Package tracing provides OpenTelemetry tracing for sweep runs.
//
// A run produces one trace:
//
//	sweep.run                 run id, dry run flag
//	└── sweep.project         project name, kept/deleted/skipped counts
//	    ├── HTTP GET          one span per Cloudflare request attempt
//	    └── sweep.delete      deployment id, outcome
//	        └── HTTP DELETE
//
// Spans are exported over OTLP gRPC. When tracing is disabled New returns a
// noop tracer, so callers never check whether tracing is on.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	sw := sweeper.New(client, policy, sweeper.WithTracer(tracer.Tracer()))
//
// # Sampling
//
// The sampler decides on the root run span and every child span follows it:
//   - always: trace every run
//   - never: trace no runs
//   - ratio: trace a fraction of runs (sample_ratio)
package tracing
