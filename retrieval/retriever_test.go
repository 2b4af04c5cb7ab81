package retrieval

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanare-ai/docpilot/ai/mock"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage/badger"
)

func seedChunks(t *testing.T) (*Retriever, func()) {
	t.Helper()

	documents, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()

	ctx := context.Background()
	contents := []string{
		"Stock levels update nightly from the wholesaler feed.",
		"Orders sync every fifteen minutes.",
		"Password resets are handled from the account page.",
	}
	for _, content := range contents {
		vec, err := embedder.EmbedText(ctx, content)
		require.NoError(t, err)
		_, err = documents.AddChunks(ctx, &core.Chunk{
			TenantID:  "pharmacy-a",
			Content:   content,
			Embedding: vec,
			SourceURL: "https://docs.example.com/page",
		})
		require.NoError(t, err)
	}

	r, err := NewRetriever(documents, embedder, WithTopK(2))
	require.NoError(t, err)

	return r, func() { backend.Close() }
}

func TestRetrieve(t *testing.T) {
	r, cleanup := seedChunks(t)
	defer cleanup()

	// The deterministic embedder gives an identical vector for identical
	// text, so the verbatim chunk must come back first at distance zero.
	chunks, err := r.Retrieve(context.Background(), "pharmacy-a", "Orders sync every fifteen minutes.")
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Orders sync every fifteen minutes.", chunks[0].Content)
	assert.InDelta(t, 0, chunks[0].Score, 1e-5)
	assert.LessOrEqual(t, chunks[0].Score, chunks[1].Score)
}

func TestRetrieve_UnknownTenant(t *testing.T) {
	r, cleanup := seedChunks(t)
	defer cleanup()

	chunks, err := r.Retrieve(context.Background(), "pharmacy-b", "orders")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieve_Validation(t *testing.T) {
	r, cleanup := seedChunks(t)
	defer cleanup()

	_, err := r.Retrieve(context.Background(), "", "orders")
	assert.ErrorIs(t, err, core.ErrEmptyTenant)

	_, err = r.Retrieve(context.Background(), "pharmacy-a", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewRetriever_Validation(t *testing.T) {
	_, err := NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	documents, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewRetriever(documents, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestFormatContext(t *testing.T) {
	chunks := []*core.RetrievedChunk{
		{Content: "first passage", SourceURL: "https://d/1", Score: 0.1234},
		{Content: "second passage", SourceURL: "https://d/2", Score: 0.5},
	}

	out := FormatContext(chunks, 0)

	assert.Contains(t, out, "[CHUNK 1] source=https://d/1 score=0.1234\nfirst passage")
	assert.Contains(t, out, "[CHUNK 2] source=https://d/2 score=0.5000\nsecond passage")
	assert.Contains(t, out, "\n\n---\n\n")
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, NoPassagesFound, FormatContext(nil, 0))
}

func TestFormatContext_Truncation(t *testing.T) {
	chunks := []*core.RetrievedChunk{
		{Content: strings.Repeat("w", 10000), SourceURL: "https://d/1", Score: 0.1},
	}

	out := FormatContext(chunks, 0)
	assert.Len(t, out, DefaultMaxContextChars)

	out = FormatContext(chunks, 100)
	assert.Len(t, out, 100)
}

func TestFormatContext_RuneSafeTruncation(t *testing.T) {
	chunks := []*core.RetrievedChunk{
		{Content: strings.Repeat("é", 200), SourceURL: "https://d/1", Score: 0.1},
	}

	out := FormatContext(chunks, 100)
	assert.LessOrEqual(t, len(out), 100)
	assert.True(t, utf8.ValidString(out))
}
