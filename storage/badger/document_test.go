package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

func unitVector(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

func TestDocumentBasics(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunk := &core.Chunk{
		TenantID:  "pharmacy-a",
		Content:   "Orders sync every fifteen minutes.",
		Embedding: unitVector(4, 0),
		SourceURL: "https://docs.example.com/orders",
	}

	added, err := documents.AddChunks(ctx, chunk)
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	count, err := documents.CountByTenant(ctx, "pharmacy-a")
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 chunk, got %d", count)
	}
}

func TestDocumentIDsAreContentDerived(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	make := func(tenant string) *core.Chunk {
		return &core.Chunk{
			TenantID:  tenant,
			Content:   "identical contents",
			Embedding: unitVector(4, 0),
			SourceURL: "https://docs.example.com/page",
		}
	}

	a, err := documents.AddChunks(ctx, make("tenant-a"))
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}
	b, err := documents.AddChunks(ctx, make("tenant-b"))
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	if a[0].Id == b[0].Id {
		t.Fatal("Expected different IDs for different tenants")
	}

	// Re-ingesting the same chunk is idempotent.
	again, err := documents.AddChunks(ctx, make("tenant-a"))
	if err != nil {
		t.Fatalf("Failed to re-add chunk: %v", err)
	}
	if again[0].Id != a[0].Id {
		t.Fatal("Expected identical ID on re-ingestion")
	}
	count, err := documents.CountByTenant(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 chunk after re-ingestion, got %d", count)
	}
}

func TestDocumentSearchOrdering(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunks := []*core.Chunk{
		{TenantID: "t1", Content: "exact match", Embedding: []float32{1, 0, 0, 0}, SourceURL: "https://d/1"},
		{TenantID: "t1", Content: "near match", Embedding: []float32{0.9, 0.1, 0, 0}, SourceURL: "https://d/2"},
		{TenantID: "t1", Content: "far match", Embedding: []float32{0, 0, 0, 1}, SourceURL: "https://d/3"},
	}
	if _, err := documents.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	results, err := documents.Search(ctx, "t1", []float32{1, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Content != "exact match" {
		t.Fatalf("Expected nearest chunk first, got %q", results[0].Content)
	}
	if results[1].Content != "near match" {
		t.Fatalf("Expected second-nearest chunk, got %q", results[1].Content)
	}
	if results[0].Score > results[1].Score {
		t.Fatal("Expected ascending distance order")
	}
	if results[0].Score != 0 {
		t.Fatalf("Expected zero distance for exact match, got %f", results[0].Score)
	}
}

func TestDocumentSearchTenantIsolation(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunks := []*core.Chunk{
		{TenantID: "tenant-a", Content: "a doc", Embedding: unitVector(4, 0), SourceURL: "https://d/a"},
		{TenantID: "tenant-b", Content: "b doc", Embedding: unitVector(4, 0), SourceURL: "https://d/b"},
	}
	if _, err := documents.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	results, err := documents.Search(ctx, "tenant-a", unitVector(4, 0), 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	for _, res := range results {
		if res.TenantID != "tenant-a" {
			t.Fatalf("Search leaked chunk from tenant %q", res.TenantID)
		}
	}

	// An unknown tenant sees nothing at all.
	results, err = documents.Search(ctx, "tenant-c", unitVector(4, 0), 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results for unknown tenant, got %d", len(results))
	}
}

// A tenant ID containing the key separator would make one tenant's key
// prefix cover another tenant's keys, so such IDs must never reach storage.
func TestDocumentTenantSeparatorRejected(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	_, err = documents.AddChunks(ctx, &core.Chunk{
		TenantID:  "acme:evil",
		Content:   "poisoned doc",
		Embedding: unitVector(4, 0),
		SourceURL: "https://d/evil",
	})
	if !errors.Is(err, core.ErrInvalidTenant) {
		t.Fatalf("AddChunks error = %v, want ErrInvalidTenant", err)
	}

	// Reads with an aliasing tenant fail too, as invalid queries.
	if _, err := documents.Search(ctx, "acme:evil", unitVector(4, 0), 10); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Search error = %v, want ErrInvalidQuery", err)
	}
	if _, err := documents.ListByTenant(ctx, "acme:evil"); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("ListByTenant error = %v, want ErrInvalidQuery", err)
	}
	if _, err := documents.CountByTenant(ctx, "acme:evil"); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("CountByTenant error = %v, want ErrInvalidQuery", err)
	}

	// Nothing was stored, so the shorter tenant sees nothing.
	results, err := documents.Search(ctx, "acme", unitVector(4, 0), 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("tenant acme search returned %d chunks, want 0", len(results))
	}
}

func TestDocumentSearchInvalidQuery(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if _, err := documents.Search(ctx, "", unitVector(4, 0), 5); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty tenant, got %v", err)
	}
	if _, err := documents.Search(ctx, "t1", unitVector(4, 0), 0); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for topK=0, got %v", err)
	}
}

func TestDocumentAddChunksAllOrNothing(t *testing.T) {
	documents, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunks := []*core.Chunk{
		{TenantID: "t1", Content: "valid chunk", Embedding: unitVector(4, 0), SourceURL: "https://d/1"},
		{TenantID: "", Content: "invalid chunk", Embedding: unitVector(4, 0), SourceURL: "https://d/2"},
	}

	if _, err := documents.AddChunks(ctx, chunks...); !errors.Is(err, core.ErrEmptyTenant) {
		t.Fatalf("Expected ErrEmptyTenant, got %v", err)
	}

	count, err := documents.CountByTenant(ctx, "t1")
	if err != nil {
		t.Fatalf("Failed to count chunks: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected rollback to drop all chunks, got %d stored", count)
	}
}
