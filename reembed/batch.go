package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/ingestion"
	"github.com/sanare-ai/docpilot/storage"
)

// BatchProcessor regenerates embeddings for batches of chunks and
// writes them back. Chunk IDs are content-derived and the content does
// not change, so the rewrite lands on the same keys.
type BatchProcessor struct {
	documents  storage.DocumentRepository
	embedder   ai.Embedder
	maxRetries int
	retryDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(documents storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		documents:  documents,
		embedder:   embedder,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Process embeds a batch of chunks and persists the new vectors.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var embeddings [][]float32
	err := ingestion.RetryWithDelay(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if _, err := bp.documents.AddChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}
	return nil
}
