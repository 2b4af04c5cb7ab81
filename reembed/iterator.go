package reembed

import (
	"context"

	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// DefaultBatchSize is the default number of chunks per embedding batch.
const DefaultBatchSize = 100

// ChunkIterator walks a tenant's chunks in batches.
type ChunkIterator struct {
	documents storage.DocumentRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize must be > 0; anything else falls back to DefaultBatchSize.
func NewChunkIterator(documents storage.DocumentRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ChunkIterator{
		documents: documents,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of the tenant's chunks. Iteration
// stops on the first error from fn. Context cancellation is checked
// between batches.
func (it *ChunkIterator) ForEach(ctx context.Context, tenantID string, fn func([]*core.Chunk) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	chunks, err := it.documents.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	for i := 0; i < len(chunks); i += it.batchSize {
		end := i + it.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		if err := fn(chunks[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}
