package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner is anything that performs one sweep.
type Runner interface {
	Run(ctx context.Context) (*Summary, error)
}

// ParseSchedule validates a standard cron expression or descriptor
// ("@daily", "@every 6h").
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return sched, nil
}

// Scheduler runs a Runner on a cron schedule.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "@every 30m"   - Every 30 minutes
type Scheduler struct {
	runner     Runner
	expr       string
	runOnStart bool
	onResult   func(*Summary, error)

	cron    *cron.Cron
	job     cron.Job
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
	wg      sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// RunOnStart makes Start trigger one run immediately.
func RunOnStart(enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.runOnStart = enabled
	}
}

// OnResult registers a callback invoked after every run.
func OnResult(fn func(*Summary, error)) SchedulerOption {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// WithSchedulerLogger sets the scheduler's logger.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler for runner. The cron expression is
// validated by Start.
func NewScheduler(runner Runner, expr string, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		runner: runner,
		expr:   expr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "sweeper.scheduler")
	s.cron = cron.New(cron.WithLogger(cronLogger{s.logger}))
	return s
}

// Start schedules runs and returns immediately. Runs use ctx; when ctx is
// cancelled the scheduler stops and waits for a run in progress.
//
// A tick that fires while a run is still going is skipped, so runs never
// overlap, including the run triggered by RunOnStart.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	sched, err := ParseSchedule(s.expr)
	if err != nil {
		return err
	}

	s.job = cron.NewChain(cron.SkipIfStillRunning(cronLogger{s.logger})).Then(cron.FuncJob(func() {
		s.runOnce(ctx)
	}))
	s.cron.Schedule(sched, s.job)
	s.cron.Start()
	s.running = true

	s.logger.Info("sweep scheduler started", "schedule", s.expr, "next_run", sched.Next(time.Now()))

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.job.Run()
		}()
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runOnce executes a single sweep.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Info("starting scheduled sweep")
	summary, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", "error", err)
	} else if summary != nil {
		totals := summary.Totals()
		s.logger.Info("scheduled sweep completed",
			"run_id", summary.RunID,
			"deleted", totals.Deleted,
			"dry_run", totals.DryRun,
			"kept", totals.Kept,
		)
	}

	if s.onResult != nil {
		s.onResult(summary, err)
	}
}

// Stop stops the scheduler and waits for any running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.wg.Wait()
	s.running = false
	s.logger.Info("sweep scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
