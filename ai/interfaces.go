package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and must return
// vectors of exactly the configured dimension, L2-normalized to unit length.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// single provider request. The returned slice contains embeddings in the
	// same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatMessage is one prior turn handed to a Completer.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Completer produces a text completion from a system prompt, prior turns and
// the current user message. It is deliberately opaque: callers treat the
// language model as an external text-completion capability.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete generates the assistant's answer.
	// Returns an error if the provider call fails.
	Complete(ctx context.Context, systemPrompt string, history []ChatMessage, message string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the text completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
