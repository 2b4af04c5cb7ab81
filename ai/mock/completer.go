package mock

import (
	"context"
	"fmt"

	"github.com/sanare-ai/docpilot/ai"
)

// MockCompleter is a test double for ai.Completer.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, the mock echoes the message back with a fixed prefix.
	CompleteFunc func(ctx context.Context, systemPrompt string, history []ai.ChatMessage, message string) (string, error)

	// LastSystemPrompt records the most recent system prompt, for assertions.
	LastSystemPrompt string

	callCount int
}

var _ ai.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned answer or delegates to CompleteFunc.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt string, history []ai.ChatMessage, message string) (string, error) {
	m.callCount++
	m.LastSystemPrompt = systemPrompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, history, message)
	}

	return fmt.Sprintf("echo: %s", message), nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
	m.LastSystemPrompt = ""
}
