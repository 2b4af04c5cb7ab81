package reembed

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when no document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)
