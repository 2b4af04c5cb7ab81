package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/crawl"
	"github.com/sanare-ai/docpilot/extract"
	"github.com/sanare-ai/docpilot/storage"
)

const (
	// DefaultMinTextLength is the shortest extracted text worth chunking.
	// Pages below it are skipped rather than embedded as noise.
	DefaultMinTextLength = 50

	// DefaultEmbedMaxRetries bounds embedding attempts per chunk batch.
	DefaultEmbedMaxRetries = 3

	// DefaultEmbedRetryDelay is the pause between embedding attempts.
	DefaultEmbedRetryDelay = 30 * time.Second
)

// Pipeline turns one source (a web page or an uploaded PDF) into stored,
// embedded chunks for a tenant: extract text, window it into chunks,
// embed the whole batch in one provider call, store all-or-nothing.
type Pipeline struct {
	documents  storage.DocumentRepository
	embedder   ai.Embedder
	fetcher    crawl.Fetcher
	chunkSize  int
	overlap    int
	minText    int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunking sets the chunk window and overlap, in words.
// Defaults are extract.DefaultChunkSize and extract.DefaultOverlap.
func WithChunking(chunkSize, overlap int) Option {
	return func(p *Pipeline) error {
		if chunkSize < 1 {
			chunkSize = extract.DefaultChunkSize
		}
		if overlap < 0 || overlap >= chunkSize {
			overlap = extract.DefaultOverlap
			if overlap >= chunkSize {
				overlap = chunkSize - 1
			}
		}
		p.chunkSize = chunkSize
		p.overlap = overlap
		return nil
	}
}

// WithRetryPolicy sets the embedding retry budget.
// Defaults are DefaultEmbedMaxRetries and DefaultEmbedRetryDelay.
func WithRetryPolicy(maxAttempts int, delay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryDelay = delay
		return nil
	}
}

// WithMinTextLength sets the minimum extracted text length worth keeping.
func WithMinTextLength(n int) Option {
	return func(p *Pipeline) error {
		if n < 0 {
			n = 0
		}
		p.minText = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	embedder ai.Embedder,
	fetcher crawl.Fetcher,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	p := &Pipeline{
		documents:  documents,
		embedder:   embedder,
		fetcher:    fetcher,
		chunkSize:  extract.DefaultChunkSize,
		overlap:    extract.DefaultOverlap,
		minText:    DefaultMinTextLength,
		maxRetries: DefaultEmbedMaxRetries,
		retryDelay: DefaultEmbedRetryDelay,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// IngestResult reports what one ingestion produced.
type IngestResult struct {
	TenantID       string `json:"tenant_id"`
	SourceURL      string `json:"source_url"`
	ChunksIngested int    `json:"chunks_ingested"`
}

// IngestURL fetches a page, extracts its text, and stores embedded
// chunks for the tenant. Pages with too little text produce a result
// with zero chunks, not an error.
func (p *Pipeline) IngestURL(ctx context.Context, tenantID, pageURL string) (*IngestResult, error) {
	if tenantID == "" {
		return nil, core.ErrEmptyTenant
	}

	body, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	text, err := extract.FromHTML(body)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", pageURL, err)
	}

	return p.ingestText(ctx, tenantID, pageURL, text)
}

// IngestPDF extracts the text of an uploaded PDF and stores embedded
// chunks for the tenant. fileName is recorded as the chunk source.
func (p *Pipeline) IngestPDF(ctx context.Context, tenantID, fileName string, data []byte) (*IngestResult, error) {
	if tenantID == "" {
		return nil, core.ErrEmptyTenant
	}

	text, err := extract.FromPDF(data)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", fileName, err)
	}

	return p.ingestText(ctx, tenantID, fileName, text)
}

// ingestText chunks, embeds, and stores already-extracted text.
func (p *Pipeline) ingestText(ctx context.Context, tenantID, sourceURL, text string) (*IngestResult, error) {
	result := &IngestResult{TenantID: tenantID, SourceURL: sourceURL}

	text = strings.TrimSpace(text)
	if len(text) < p.minText {
		p.logger.Debug("source has too little text, skipping", "tenant_id", tenantID, "source", sourceURL, "chars", len(text))
		return result, nil
	}

	chunks := extract.SplitWords(text, p.chunkSize, p.overlap)
	if len(chunks) == 0 {
		return result, nil
	}

	var vectors [][]float32
	err := RetryWithDelay(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, chunks)
		return embedErr
	}, p.maxRetries, p.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks from %s: %w", len(chunks), sourceURL, err)
	}

	rows := make([]*core.Chunk, len(chunks))
	for i, content := range chunks {
		rows[i] = &core.Chunk{
			TenantID:  tenantID,
			Content:   content,
			Embedding: vectors[i],
			SourceURL: sourceURL,
		}
	}

	if _, err := p.documents.AddChunks(ctx, rows...); err != nil {
		return nil, fmt.Errorf("storing %d chunks from %s: %w", len(rows), sourceURL, err)
	}

	result.ChunksIngested = len(rows)
	p.logger.Info("source ingested", "tenant_id", tenantID, "source", sourceURL, "chunks", len(rows))
	return result, nil
}
