// Copyright 2025 Sanare AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// Config holds configuration for a reembedding pass.
type Config struct {
	// BatchSize is the number of chunks sent per embedding request.
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks).
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding request.
	MaxRetries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embeddings of one tenant's chunk corpus.
type Reembedder struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ChunkIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(documents storage.DocumentRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		documents: documents,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(documents, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewChunkIterator(documents, config.BatchSize),
	}, nil
}

// Run reembeds every chunk stored for tenantID.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context, tenantID string) error {
	total, err := r.documents.CountByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found for tenant %s (0 chunks)\n", tenantID)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, tenantID, func(chunks []*core.Chunk) error {
		if err := r.processor.Process(ctx, chunks); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(chunks)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}
