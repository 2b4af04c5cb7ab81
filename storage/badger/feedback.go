package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// FeedbackRepository implements storage.FeedbackRepository for BadgerDB.
type FeedbackRepository struct {
	backend *Backend
}

var _ storage.FeedbackRepository = (*FeedbackRepository)(nil)

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(backend *Backend) (*FeedbackRepository, error) {
	return &FeedbackRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *FeedbackRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *FeedbackRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddFeedback stores a feedback entry.
func (r *FeedbackRepository) AddFeedback(ctx context.Context, feedback *core.Feedback) error {
	if err := core.ValidateRating(feedback.Rating); err != nil {
		return err
	}
	if err := core.ValidateTenantID(feedback.TenantID); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if feedback.CreatedAt.IsZero() {
			feedback.CreatedAt = time.Now().UTC()
		}
		if feedback.Id == 0 {
			feedback.Id = core.IDFromContent(feedback.TenantID + "\x00" +
				feedback.CreatedAt.Format(time.RFC3339Nano) + "\x00" + feedback.Message)
		}

		value, err := storage.Marshal(feedback)
		if err != nil {
			return err
		}
		key := makeFeedbackKey(feedback.TenantID, feedback.CreatedAt, feedback.Id)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListByTenant returns a tenant's feedback in chronological order.
func (r *FeedbackRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*core.Feedback, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	var entries []*core.Feedback

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantFeedbackPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.Feedback
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalFeedback(val)
				return err
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)

			if limit > 0 && len(entries) == limit {
				return nil
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return entries, nil
}
