package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pagesweep-hq/pagesweep/pkg/pages"
	"pagesweep-hq/pagesweep/pkg/pages/retention"
	"pagesweep-hq/pagesweep/pkg/telemetry/logging"
	"pagesweep-hq/pagesweep/pkg/telemetry/tracing"
)

// Source is the platform the sweeper reads from and deletes in.
type Source interface {
	Deleter

	// Projects returns a pager over the account's projects.
	Projects() *pages.Pager[pages.Project]

	// Deployments returns a pager over a project's deployments, newest first.
	Deployments(project string) *pages.Pager[pages.Deployment]
}

// Recorder receives sweep events, typically a metrics collector.
type Recorder interface {
	RecordDecision(project, action, reason string)
	RecordDeletion(project, result string)
	RecordSkip(reason string)
	RecordProject(result string)
	RecordRun(duration time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(string, string, string) {}
func (nopRecorder) RecordDeletion(string, string)         {}
func (nopRecorder) RecordSkip(string)                     {}
func (nopRecorder) RecordProject(string)                  {}
func (nopRecorder) RecordRun(time.Duration, error)        {}

// Skip reasons reported to the Recorder.
const (
	SkipMissingProjectName = "missing_project_name"
	SkipMissingID          = "missing_id"
	SkipMissingCreatedOn   = "missing_created_on"
)

// settings is swapped as a whole so a run sees one consistent snapshot.
type settings struct {
	policy   retention.Policy
	projects map[string]struct{}
}

// Sweeper applies a retention policy to every project of an account.
type Sweeper struct {
	source   Source
	settings atomic.Pointer[settings]

	logger   *slog.Logger
	renderer *Renderer
	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time
	newRunID func() string
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger decisions are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithRenderer sets how decision lines are rendered.
func WithRenderer(r *Renderer) Option {
	return func(s *Sweeper) {
		s.renderer = r
	}
}

// WithRecorder reports sweep events to r.
func WithRecorder(r Recorder) Option {
	return func(s *Sweeper) {
		s.recorder = r
	}
}

// WithTracer creates a span for each run, project and delete.
func WithTracer(t trace.Tracer) Option {
	return func(s *Sweeper) {
		s.tracer = t
	}
}

// WithProjects limits the sweep to the named projects.
func WithProjects(names []string) Option {
	return func(s *Sweeper) {
		cur := s.settings.Load()
		s.settings.Store(&settings{policy: cur.policy, projects: projectSet(names)})
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithRunIDs replaces the run ID generator, for tests.
func WithRunIDs(next func() string) Option {
	return func(s *Sweeper) {
		s.newRunID = next
	}
}

// New returns a Sweeper. The policy must already be valid.
func New(source Source, policy retention.Policy, opts ...Option) *Sweeper {
	s := &Sweeper{
		source:   source,
		logger:   slog.Default(),
		renderer: NewRenderer(RenderOptions{}),
		recorder: nopRecorder{},
		tracer:   noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	s.settings.Store(&settings{policy: policy})

	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "sweeper")
	return s
}

// SetPolicy replaces the policy used by later runs. A run in progress keeps
// the policy it started with.
func (s *Sweeper) SetPolicy(policy retention.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	cur := s.settings.Load()
	s.settings.Store(&settings{policy: policy, projects: cur.projects})
	return nil
}

// SetProjects replaces the project allow-list used by later runs.
func (s *Sweeper) SetProjects(names []string) {
	cur := s.settings.Load()
	s.settings.Store(&settings{policy: cur.policy, projects: projectSet(names)})
}

// Policy returns the policy the next run will use.
func (s *Sweeper) Policy() retention.Policy {
	return s.settings.Load().policy
}

// Run sweeps every project once.
//
// The returned error is nil only if every project was processed completely.
// A project listing failure or cancellation ends the run early; deployment
// listing and delete failures end only the affected project and are joined
// into the returned error. The Summary is always non-nil.
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	cfg := s.settings.Load()
	now := s.now()

	summary := &Summary{
		RunID:     s.newRunID(),
		StartedAt: now,
		Policy:    cfg.policy,
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	ctx, span := s.tracer.Start(ctx, tracing.SpanRun,
		trace.WithAttributes(tracing.RunAttributes(summary.RunID, cfg.policy.DryRun)...))
	defer span.End()

	s.logger.InfoContext(ctx, "sweep started",
		"dry_run", cfg.policy.DryRun,
		"retain_success_count", cfg.policy.RetainSuccessCount,
		"retain_failed_count", cfg.policy.RetainFailedCount,
		"retain_recent_days", cfg.policy.RetainRecentDays,
	)

	err := s.run(ctx, cfg, now, summary)

	summary.FinishedAt = s.now()
	if err != nil {
		summary.Error = err.Error()
	}
	s.recorder.RecordRun(summary.Duration(), err)

	totals := summary.Totals()
	span.SetAttributes(tracing.CountAttributes(totals.Kept, totals.Deleted+totals.DryRun, totals.Skipped)...)
	tracing.SetStatus(span, err)

	attrs := []any{
		"projects", len(summary.Projects),
		"kept", totals.Kept,
		"deleted", totals.Deleted,
		"dry_run", totals.DryRun,
		"skipped", totals.Skipped,
		"duration", summary.Duration(),
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep finished with errors", append(attrs, "error", err)...)
	} else {
		s.logger.DebugContext(ctx, "sweep finished", attrs...)
	}

	return summary, err
}

func (s *Sweeper) run(ctx context.Context, cfg *settings, now time.Time, summary *Summary) error {
	var errs []error

	projects := s.source.Projects()
	for projects.Next(ctx) {
		project := projects.Value()

		if project.Name == "" {
			s.logger.WarnContext(ctx, "skipping project without a name", "project_id", project.ID)
			summary.SkippedProjects++
			s.recorder.RecordSkip(SkipMissingProjectName)
			continue
		}
		if cfg.projects != nil {
			if _, ok := cfg.projects[project.Name]; !ok {
				s.logger.DebugContext(ctx, "skipping project outside the allow-list", "project", s.renderer.Project(project.Name))
				summary.FilteredProjects++
				s.recorder.RecordProject("filtered")
				continue
			}
		}

		pctx := logging.WithProject(ctx, s.renderer.Project(project.Name))
		result, err := s.sweepProject(pctx, project.Name, cfg.policy, now)
		if err != nil {
			result.Error = err.Error()
		}
		summary.Projects = append(summary.Projects, result)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.recorder.RecordProject("canceled")
				return errors.Join(append(errs, ctxErr)...)
			}
			s.logger.ErrorContext(pctx, "project aborted", "error", err)
			s.recorder.RecordProject("error")
			errs = append(errs, &ProjectError{Project: s.renderer.Project(project.Name), Cause: err})
			continue
		}
		s.recorder.RecordProject("ok")
	}

	if err := projects.Err(); err != nil {
		errs = append(errs, fmt.Errorf("list projects: %w", err))
	}
	return errors.Join(errs...)
}

// sweepProject evaluates one project's deployments in listing order and acts
// on each decision before pulling the next deployment.
func (s *Sweeper) sweepProject(ctx context.Context, project string, policy retention.Policy, now time.Time) (result ProjectResult, err error) {
	label := s.renderer.Project(project)
	result = ProjectResult{Name: label}

	ctx, span := s.tracer.Start(ctx, tracing.SpanProject,
		trace.WithAttributes(attribute.String(tracing.AttrProject, label)))
	defer func() {
		span.SetAttributes(tracing.CountAttributes(result.Kept, result.Deleted+result.DryRun, result.Skipped)...)
		tracing.SetStatus(span, err)
		span.End()
	}()
	eval := retention.NewEvaluator(policy, now)
	exec := NewExecutor(s.source, policy.DryRun)

	deployments := s.source.Deployments(project)
	for deployments.Next(ctx) {
		d := deployments.Value()

		decision, err := eval.Evaluate(d)
		if err != nil {
			s.skip(ctx, project, d, err)
			result.Skipped++
			continue
		}

		if decision.Keep() {
			s.logger.InfoContext(ctx, s.renderer.Line(project, d, s.renderer.KeepLabel(d, decision, policy)),
				append(s.renderer.Attrs(project, d), "action", decision.Action.String(), "reason", string(decision.Reason))...)
			s.recorder.RecordDecision(label, decision.Action.String(), string(decision.Reason))
			result.keep(decision.Reason)
			continue
		}

		s.recorder.RecordDecision(label, decision.Action.String(), "")
		outcome, err := s.execute(ctx, exec, project, label, d)
		if err != nil {
			var delErr *DeleteError
			if errors.As(err, &delErr) {
				s.logger.ErrorContext(ctx, s.renderer.Line(project, d, s.renderer.OutcomeLabel(OutcomeDeleted)),
					append(s.renderer.Attrs(project, d), "error", err)...)
				s.recorder.RecordDeletion(label, "error")
			}
			return result, err
		}

		s.logger.InfoContext(ctx, s.renderer.Line(project, d, s.renderer.OutcomeLabel(outcome)),
			append(s.renderer.Attrs(project, d), "action", outcome.String())...)
		s.recorder.RecordDeletion(label, outcome.String())
		if outcome == OutcomeDryRun {
			result.DryRun++
		} else {
			result.Deleted++
		}
	}

	if err := deployments.Err(); err != nil {
		return result, fmt.Errorf("list deployments: %w", s.renderer.Error(project, err))
	}
	return result, nil
}

func (s *Sweeper) execute(ctx context.Context, exec *Executor, project, label string, d pages.Deployment) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanDelete,
		trace.WithAttributes(tracing.DeploymentAttributes(label, d.ID, d.Environment)...))
	defer span.End()

	outcome, err := exec.Execute(ctx, project, d)
	if err == nil {
		span.SetAttributes(attribute.String(tracing.AttrOutcome, outcome.String()))
	} else {
		var delErr *DeleteError
		if errors.As(err, &delErr) {
			delErr.Project = label
		}
		err = s.renderer.Error(project, err)
	}
	tracing.SetStatus(span, err)
	return outcome, err
}

func (s *Sweeper) skip(ctx context.Context, project string, d pages.Deployment, err error) {
	reason := SkipMissingID
	if errors.Is(err, retention.ErrMissingCreatedOn) {
		reason = SkipMissingCreatedOn
	}
	s.logger.WarnContext(ctx, "skipping deployment",
		append(s.renderer.Attrs(project, d), "reason", reason, "error", err)...)
	s.recorder.RecordSkip(reason)
}

func projectSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
