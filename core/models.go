package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored chunks.
// It is derived from content so that re-ingesting the same passage for the
// same tenant and source produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the ID for a chunk from its tenant, source and content.
func ChunkID(tenantID, sourceURL, content string) ID {
	return IDFromContent(tenantID + "\x00" + sourceURL + "\x00" + content)
}

// Chunk is a bounded span of extracted document text, the atomic unit of
// embedding and retrieval. Chunks are immutable once stored and always belong
// to exactly one tenant; the tenant is never inferred, only passed by callers.
type Chunk struct {
	Id        ID        `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"` // Unit-length vector of the configured dimension
	SourceURL string    `json:"source_url"`
	CreatedAt time.Time `json:"created_at"`
}

// JobStatus describes the lifecycle state of an onboarding job.
// Transitions are monotonic: pending -> running -> {completed, failed}.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusRunning || next == JobStatusFailed
	case JobStatusRunning:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// OnboardingJob tracks a long-running documentation crawl for one tenant.
// The persisted row is the single source of truth for progress: pollers read
// it directly and never depend on in-memory task handles.
type OnboardingJob struct {
	Id             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	RootURL        string    `json:"root_url"`
	ProductName    string    `json:"product_name"`
	Status         JobStatus `json:"status"`
	PagesFound     int       `json:"pages_found"`
	PagesProcessed int       `json:"pages_processed"`
	ChunksTotal    int       `json:"chunks_total"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	StartedAt      time.Time `json:"started_at,omitempty"`
	FinishedAt     time.Time `json:"finished_at,omitempty"`
}

// Percent derives completion progress from the persisted counters.
// Returns 0 until discovery has reported a page count.
func (j *OnboardingJob) Percent() int {
	if j.PagesFound <= 0 {
		return 0
	}
	percent := j.PagesProcessed * 100 / j.PagesFound
	if percent > 100 {
		percent = 100
	}
	return percent
}

// RetrievedChunk is a transient search hit. Score is an L2 distance between
// the query embedding and the chunk embedding, so lower means more relevant.
type RetrievedChunk struct {
	Id        ID
	TenantID  string
	Content   string
	SourceURL string
	Score     float32
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation groups the messages of one widget session for a tenant.
type Conversation struct {
	Id        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single stored conversation turn.
type Message struct {
	Id             ID          `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}

// FeedbackRating is a thumbs-up / thumbs-down verdict on an answer.
type FeedbackRating string

const (
	RatingPositive FeedbackRating = "positive"
	RatingNegative FeedbackRating = "negative"
)

// Feedback records a tenant user's verdict on a single answer.
type Feedback struct {
	Id        ID             `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Message   string         `json:"message"`
	Response  string         `json:"response"`
	Rating    FeedbackRating `json:"rating"`
	CreatedAt time.Time      `json:"created_at"`
}
