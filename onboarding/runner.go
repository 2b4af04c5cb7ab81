package onboarding

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// DefaultRunnerPoolSize bounds how many onboarding jobs run at once.
// Jobs are long-lived and rate-limited, so a small pool is plenty.
const DefaultRunnerPoolSize = 4

// Runner executes onboarding jobs in the background on a bounded
// worker pool. Job state lives in storage, so callers poll the job row
// rather than holding a handle to the running task.
type Runner struct {
	orchestrator *Orchestrator
	pool         *ants.Pool
	logger       *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithPoolSize sets the worker pool size for concurrent jobs.
// Default is DefaultRunnerPoolSize.
func WithPoolSize(size int) RunnerOption {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRunnerLogger sets a custom logger.
// Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "onboarding")
		return nil
	}
}

// NewRunner creates a new background runner.
func NewRunner(orchestrator *Orchestrator, opts ...RunnerOption) (*Runner, error) {
	if orchestrator == nil {
		return nil, ErrOrchestratorRequired
	}

	pool, err := ants.NewPool(DefaultRunnerPoolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		orchestrator: orchestrator,
		pool:         pool,
		logger:       slog.Default().With("component", "onboarding"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}

	return r, nil
}

// Start submits a job for background execution and returns immediately.
// Failures inside the job are persisted on the job row and logged, never
// surfaced to the submitting request.
func (r *Runner) Start(jobID string, maxPages int) error {
	return r.pool.Submit(func() {
		if err := r.orchestrator.Run(context.Background(), jobID, maxPages); err != nil {
			r.logger.Error("onboarding job did not complete", "job_id", jobID, "err", err)
		}
	})
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
