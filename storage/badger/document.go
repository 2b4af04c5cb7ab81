package badger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks stores chunks in a single transaction, all-or-nothing.
func (r *DocumentRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}

			if chunk.Id == 0 {
				chunk.Id = core.ChunkID(chunk.TenantID, chunk.SourceURL, chunk.Content)
			}
			if chunk.CreatedAt.IsZero() {
				chunk.CreatedAt = now
			}

			value, err := storage.Marshal(chunk)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkKey(chunk.TenantID, chunk.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// Search scans the tenant's chunks and returns the topK nearest to query
// by L2 distance, nearest first. Ties keep storage order.
func (r *DocumentRepository) Search(ctx context.Context, tenantID string, query []float32, topK int) ([]*core.RetrievedChunk, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}
	if topK < 1 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.RetrievedChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantChunkPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Embedding) == 0 {
				continue
			}

			results = append(results, &core.RetrievedChunk{
				Id:        chunk.Id,
				TenantID:  chunk.TenantID,
				Content:   chunk.Content,
				SourceURL: chunk.SourceURL,
				Score:     l2Distance(query, chunk.Embedding),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Stable sort preserves storage order for equal distances.
	slices.SortStableFunc(results, func(a, b *core.RetrievedChunk) int {
		if a.Score < b.Score {
			return -1
		}
		if a.Score > b.Score {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// ListByTenant returns all of a tenant's chunks in storage order.
func (r *DocumentRepository) ListByTenant(ctx context.Context, tenantID string) ([]*core.Chunk, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	var chunks []*core.Chunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantChunkPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				chunks = append(chunks, chunk)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// CountByTenant counts the chunks stored for a tenant.
func (r *DocumentRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantChunkPrefix(tenantID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// l2Distance calculates the Euclidean distance between two vectors.
// Missing trailing components are treated as zero.
func l2Distance(a, b []float32) float32 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	var sum float64
	for i := 0; i < longest; i++ {
		var av, bv float64
		if i < len(a) {
			av = float64(a[i])
		}
		if i < len(b) {
			bv = float64(b[i])
		}
		d := av - bv
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
