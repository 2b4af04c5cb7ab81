package mock

import "github.com/sanare-ai/docpilot/ai"

// MockProvider aggregates mock AI services for tests.
type MockProvider struct {
	embedder  *MockEmbedder
	completer *MockCompleter
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider backed by deterministic mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		completer: NewMockCompleter(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the mock completion service.
func (p *MockProvider) Completer() ai.Completer {
	return p.completer
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCompleter returns the concrete completer for test assertions.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}
