package storage

import (
	"context"

	"github.com/sanare-ai/docpilot/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing embedded document chunks.
// Every operation is scoped by an explicit tenant ID; tenants never mix.
type DocumentRepository interface {
	Repository
	// AddChunks stores one or more chunks in a single transaction,
	// all-or-nothing. Chunks with ID=0 get content-derived IDs.
	// Sets CreatedAt if not already set.
	// Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// Search returns up to topK chunks belonging to tenantID, ordered by
	// ascending L2 distance between their embeddings and query (nearest
	// first). Ties keep natural storage order.
	Search(ctx context.Context, tenantID string, query []float32, topK int) ([]*core.RetrievedChunk, error)

	// ListByTenant returns all of a tenant's chunks in storage order.
	// Used for maintenance passes over a whole corpus.
	ListByTenant(ctx context.Context, tenantID string) ([]*core.Chunk, error)

	// CountByTenant returns the number of chunks stored for a tenant.
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}

// JobRepository provides operations for managing onboarding jobs.
type JobRepository interface {
	Repository
	// AddJob stores a new onboarding job.
	// Sets CreatedAt if not already set.
	AddJob(ctx context.Context, job *core.OnboardingJob) error

	// GetJob retrieves a job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id string) (*core.OnboardingJob, error)

	// UpdateJob overwrites an existing job row.
	// Returns ErrNotFound if the job doesn't exist and ErrJobTerminal if
	// the stored job already reached a terminal status.
	UpdateJob(ctx context.Context, job *core.OnboardingJob) error
}

// ConversationRepository provides operations for managing widget
// conversations and their messages.
type ConversationRepository interface {
	Repository
	// AddConversation stores a new conversation.
	AddConversation(ctx context.Context, conversation *core.Conversation) error

	// GetConversation retrieves a conversation by ID.
	// Returns ErrNotFound if the conversation doesn't exist.
	GetConversation(ctx context.Context, id string) (*core.Conversation, error)

	// AddMessage appends a message to a conversation.
	// Returns ErrNotFound if the conversation doesn't exist.
	AddMessage(ctx context.Context, message *core.Message) error

	// GetMessages returns the messages of a conversation in chronological
	// order, up to limit (0 means no limit, keeping the most recent ones).
	GetMessages(ctx context.Context, conversationID string, limit int) ([]*core.Message, error)
}

// FeedbackRepository provides operations for recording answer feedback.
type FeedbackRepository interface {
	Repository
	// AddFeedback stores a feedback entry.
	AddFeedback(ctx context.Context, feedback *core.Feedback) error

	// ListByTenant returns a tenant's feedback entries in chronological
	// order, up to limit (0 means no limit).
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*core.Feedback, error)
}
