package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 5

// Retriever embeds a query and finds the nearest stored chunks for one
// tenant.
type Retriever struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	topK      int
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets how many chunks a query returns.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK < 1 {
			topK = DefaultTopK
		}
		r.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "retriever")
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(documents storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		documents: documents,
		embedder:  embedder,
		topK:      DefaultTopK,
		logger:    slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds query and returns the tenant's nearest chunks, nearest
// first. Score is a distance, so lower means more relevant.
func (r *Retriever) Retrieve(ctx context.Context, tenantID, query string) ([]*core.RetrievedChunk, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "tenant_id", tenantID, "err", err)
		return nil, err
	}

	chunks, err := r.documents.Search(ctx, tenantID, embedding, r.topK)
	if err != nil {
		r.logger.Error("error querying for similar chunks", "tenant_id", tenantID, "err", err)
		return nil, err
	}

	r.logger.Debug("retrieved chunks", "tenant_id", tenantID, "hits", len(chunks))
	return chunks, nil
}
