package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	return &JobRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *JobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddJob stores a new onboarding job.
func (r *JobRepository) AddJob(ctx context.Context, job *core.OnboardingJob) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if job.CreatedAt.IsZero() {
			job.CreatedAt = time.Now().UTC()
		}

		value, err := storage.Marshal(job)
		if err != nil {
			return err
		}
		if err := tx.Set(makeJobKey(job.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves a job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*core.OnboardingJob, error) {
	var job *core.OnboardingJob

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		job, err = readJob(tx, id)
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob overwrites an existing job row. The stored row, not the
// caller's copy, decides whether the job is still mutable: a terminal
// row is never touched again.
func (r *JobRepository) UpdateJob(ctx context.Context, job *core.OnboardingJob) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		stored, err := readJob(tx, job.Id)
		if err != nil {
			return err
		}
		if stored.Status.Terminal() {
			return storage.ErrJobTerminal
		}
		if stored.Status != job.Status && !stored.Status.CanTransitionTo(job.Status) {
			return core.ErrInvalidTransition
		}

		value, err := storage.Marshal(job)
		if err != nil {
			return err
		}
		if err := tx.Set(makeJobKey(job.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readJob reads a job row inside an open transaction.
func readJob(tx *badger.Txn, id string) (*core.OnboardingJob, error) {
	item, err := tx.Get(makeJobKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var job *core.OnboardingJob
	err = item.Value(func(val []byte) error {
		var err error
		job, err = storage.UnmarshalJob(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}
