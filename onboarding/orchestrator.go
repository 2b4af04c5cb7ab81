package onboarding

import (
	"context"
	"log/slog"
	"time"

	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/ingestion"
	"github.com/sanare-ai/docpilot/storage"
)

const (
	// DefaultPageDelay spaces page processing to respect the embedding
	// provider's request-rate ceiling.
	DefaultPageDelay = 25 * time.Second

	// maxErrorLength bounds the error message persisted on a failed job.
	maxErrorLength = 500
)

// Discoverer finds the pages of a documentation site.
type Discoverer interface {
	Discover(ctx context.Context, rootURL string, maxPages int) ([]string, error)
}

// PageIngester turns one page into stored chunks for a tenant.
type PageIngester interface {
	IngestURL(ctx context.Context, tenantID, pageURL string) (*ingestion.IngestResult, error)
}

// Orchestrator drives one onboarding job through its lifecycle:
// discover pages, process each page through the ingestion pipeline,
// and persist progress counters after every page so pollers observe
// monotonically increasing progress.
type Orchestrator struct {
	jobs       storage.JobRepository
	discoverer Discoverer
	ingester   PageIngester
	pageDelay  time.Duration
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPageDelay sets the pause between page processing.
// Default is DefaultPageDelay. Zero disables the pause.
func WithPageDelay(delay time.Duration) Option {
	return func(o *Orchestrator) error {
		if delay < 0 {
			delay = 0
		}
		o.pageDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "onboarding")
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(
	jobs storage.JobRepository,
	discoverer Discoverer,
	ingester PageIngester,
	opts ...Option,
) (*Orchestrator, error) {
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if discoverer == nil {
		return nil, ErrDiscovererRequired
	}
	if ingester == nil {
		return nil, ErrIngesterRequired
	}

	o := &Orchestrator{
		jobs:       jobs,
		discoverer: discoverer,
		ingester:   ingester,
		pageDelay:  DefaultPageDelay,
		logger:     slog.Default().With("component", "onboarding"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Run executes the job with the given ID to a terminal state. A failed
// discovery fails the job; a failed page does not — the page is counted
// as processed without chunks and the loop moves on. There is no resume:
// a retried root always restarts discovery from scratch.
func (o *Orchestrator) Run(ctx context.Context, jobID string, maxPages int) error {
	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != core.JobStatusPending {
		return ErrJobNotPending
	}

	job.Status = core.JobStatusRunning
	job.StartedAt = time.Now().UTC()
	if err := o.jobs.UpdateJob(ctx, job); err != nil {
		return err
	}

	logger := o.logger.With("job_id", job.Id, "tenant_id", job.TenantID)
	logger.Info("onboarding started", "root_url", job.RootURL, "max_pages", maxPages)

	pages, err := o.discoverer.Discover(ctx, job.RootURL, maxPages)
	if err != nil {
		logger.Error("discovery failed", "err", err)
		return o.fail(ctx, job, err)
	}

	job.PagesFound = len(pages)
	if err := o.jobs.UpdateJob(ctx, job); err != nil {
		return err
	}
	logger.Info("discovery finished", "pages_found", len(pages))

	for i, pageURL := range pages {
		if i > 0 && o.pageDelay > 0 {
			if err := sleep(ctx, o.pageDelay); err != nil {
				return o.fail(ctx, job, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return o.fail(ctx, job, err)
		}

		result, err := o.ingester.IngestURL(ctx, job.TenantID, pageURL)
		if err != nil {
			// Page-level failure: the page contributes no chunks but the
			// job keeps going.
			logger.Warn("page processing failed", "url", pageURL, "err", err)
		} else {
			job.ChunksTotal += result.ChunksIngested
		}

		job.PagesProcessed++
		if err := o.jobs.UpdateJob(ctx, job); err != nil {
			return err
		}
	}

	job.Status = core.JobStatusCompleted
	job.FinishedAt = time.Now().UTC()
	if err := o.jobs.UpdateJob(ctx, job); err != nil {
		return err
	}

	logger.Info("onboarding completed",
		"pages_processed", job.PagesProcessed, "chunks_total", job.ChunksTotal)
	return nil
}

// fail moves the job to its failed terminal state, recording why.
func (o *Orchestrator) fail(ctx context.Context, job *core.OnboardingJob, cause error) error {
	job.Status = core.JobStatusFailed
	job.ErrorMessage = truncateError(cause)
	job.FinishedAt = time.Now().UTC()
	if err := o.jobs.UpdateJob(ctx, job); err != nil {
		o.logger.Error("failed to persist job failure", "job_id", job.Id, "err", err)
	}
	return cause
}

// truncateError bounds an error message for storage.
func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	return msg
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
