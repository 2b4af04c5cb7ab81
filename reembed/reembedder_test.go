package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanare-ai/docpilot/ai/mock"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
	"github.com/sanare-ai/docpilot/storage/badger"
)

func setupRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	documents, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return documents
}

func seedChunks(t *testing.T, documents storage.DocumentRepository, tenantID string, n int) {
	t.Helper()
	ctx := context.Background()
	chunks := make([]*core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = &core.Chunk{
			TenantID:  tenantID,
			SourceURL: "https://docs.example.com/page",
			Content:   fmt.Sprintf("chunk content number %d", i),
			Embedding: []float32{1, 0, 0},
		}
	}
	_, err := documents.AddChunks(ctx, chunks...)
	require.NoError(t, err)
}

func TestReembedderRun(t *testing.T) {
	documents := setupRepo(t)
	seedChunks(t, documents, "tenant-a", 10)
	ctx := context.Background()

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}

	r, err := NewReembedder(documents, embedder, config, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx, "tenant-a"))

	// 10 chunks in batches of 3 means 4 embedding calls.
	assert.Equal(t, 4, embedder.CallCount())
	assert.Contains(t, buf.String(), "Reembedding complete")

	// Vectors on disk now match what the mock embedder produces.
	chunks, err := documents.ListByTenant(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, chunks, 10)
	for _, chunk := range chunks {
		expected := mock.DeterministicVector(chunk.Content, 8)
		assert.Equal(t, expected, chunk.Embedding)
	}
}

func TestReembedderRunEmptyTenant(t *testing.T) {
	documents := setupRepo(t)

	var buf bytes.Buffer
	r, err := NewReembedder(documents, mock.NewMockEmbedder(), nil, &buf)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), "tenant-empty"))
	assert.Contains(t, buf.String(), "No chunks found")
}

func TestReembedderDoesNotTouchOtherTenants(t *testing.T) {
	documents := setupRepo(t)
	seedChunks(t, documents, "tenant-a", 3)
	seedChunks(t, documents, "tenant-b", 3)
	ctx := context.Background()

	r, err := NewReembedder(documents, mock.NewMockEmbedder(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx, "tenant-a"))

	others, err := documents.ListByTenant(ctx, "tenant-b")
	require.NoError(t, err)
	for _, chunk := range others {
		assert.Equal(t, []float32{1, 0, 0}, chunk.Embedding)
	}
}

func TestReembedderEmbedderFailure(t *testing.T) {
	documents := setupRepo(t)
	seedChunks(t, documents, "tenant-a", 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider down")
	}

	config := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 2, RetryDelay: time.Millisecond}
	r, err := NewReembedder(documents, embedder, config, nil)
	require.NoError(t, err)

	err = r.Run(context.Background(), "tenant-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
	// Both attempts were spent.
	assert.Equal(t, 2, embedder.CallCount())
}

func TestNewReembedderValidation(t *testing.T) {
	documents := setupRepo(t)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewReembedder(documents, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
