package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/retrieval"
	"github.com/sanare-ai/docpilot/storage"
)

// DefaultHistoryLimit bounds how many stored turns are replayed into
// the prompt when a conversation ID is supplied.
const DefaultHistoryLimit = 20

// Retriever finds the stored chunks most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, tenantID, query string) ([]*core.RetrievedChunk, error)
}

// Request is one chat turn from the widget.
type Request struct {
	TenantID string
	Message  string
	Screen   ScreenContext

	// History carries the caller's own transcript. Ignored when
	// ConversationID is set and a conversation repository is wired, in
	// which case the stored transcript wins.
	History []ai.ChatMessage

	// ConversationID, when set, loads history from storage and persists
	// both this message and the answer.
	ConversationID string
}

// Response is the assistant's answer plus what grounded it.
type Response struct {
	Answer string
	Chunks []*core.RetrievedChunk
}

// Orchestrator answers widget questions: retrieve the tenant's nearest
// documentation chunks, fold them into a system prompt, and hand the
// conversation to the completion model.
type Orchestrator struct {
	retriever     Retriever
	completer     ai.Completer
	conversations storage.ConversationRepository
	maxContext    int
	historyLimit  int
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithConversations wires conversation persistence. Without it,
// ConversationID on requests is ignored.
func WithConversations(conversations storage.ConversationRepository) Option {
	return func(o *Orchestrator) error {
		o.conversations = conversations
		return nil
	}
}

// WithMaxContextChars bounds the formatted retrieval context.
// Default is retrieval.DefaultMaxContextChars.
func WithMaxContextChars(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			n = retrieval.DefaultMaxContextChars
		}
		o.maxContext = n
		return nil
	}
}

// WithHistoryLimit bounds stored-history replay.
// Default is DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			n = DefaultHistoryLimit
		}
		o.historyLimit = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "chat")
		return nil
	}
}

// NewOrchestrator creates a new chat orchestrator.
func NewOrchestrator(retriever Retriever, completer ai.Completer, opts ...Option) (*Orchestrator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	o := &Orchestrator{
		retriever:    retriever,
		completer:    completer,
		maxContext:   retrieval.DefaultMaxContextChars,
		historyLimit: DefaultHistoryLimit,
		logger:       slog.Default().With("component", "chat"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Answer handles one chat turn for a tenant.
func (o *Orchestrator) Answer(ctx context.Context, req Request) (*Response, error) {
	if req.TenantID == "" {
		return nil, core.ErrEmptyTenant
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	chunks, err := o.retriever.Retrieve(ctx, req.TenantID, req.Message)
	if err != nil {
		return nil, err
	}

	history := req.History
	if req.ConversationID != "" && o.conversations != nil {
		stored, err := o.loadHistory(ctx, req.ConversationID)
		if err != nil {
			return nil, err
		}
		history = stored
	}

	systemPrompt := buildSystemPrompt(retrieval.FormatContext(chunks, o.maxContext), req.Screen)

	answer, err := o.completer.Complete(ctx, systemPrompt, history, req.Message)
	if err != nil {
		o.logger.Error("completion failed", "tenant_id", req.TenantID, "err", err)
		return nil, err
	}

	if req.ConversationID != "" && o.conversations != nil {
		o.persistTurn(ctx, req.ConversationID, req.Message, answer)
	}

	o.logger.Debug("chat turn answered",
		"tenant_id", req.TenantID, "chunks", len(chunks), "history_turns", len(history))
	return &Response{Answer: answer, Chunks: chunks}, nil
}

// loadHistory replays a stored conversation as prompt history.
func (o *Orchestrator) loadHistory(ctx context.Context, conversationID string) ([]ai.ChatMessage, error) {
	messages, err := o.conversations.GetMessages(ctx, conversationID, o.historyLimit)
	if err != nil {
		return nil, err
	}

	history := make([]ai.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		history = append(history, ai.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return history, nil
}

// persistTurn stores the user message and the answer. Persistence
// failures are logged, not surfaced: the user already has the answer.
func (o *Orchestrator) persistTurn(ctx context.Context, conversationID, message, answer string) {
	// Explicit timestamps keep the pair ordered even within one clock tick.
	now := time.Now().UTC()
	userMsg := &core.Message{ConversationID: conversationID, Role: core.RoleUser, Content: message, CreatedAt: now}
	if err := o.conversations.AddMessage(ctx, userMsg); err != nil {
		o.logger.Warn("failed to persist user message", "conversation_id", conversationID, "err", err)
		return
	}

	assistantMsg := &core.Message{ConversationID: conversationID, Role: core.RoleAssistant, Content: answer, CreatedAt: now.Add(time.Microsecond)}
	if err := o.conversations.AddMessage(ctx, assistantMsg); err != nil {
		o.logger.Warn("failed to persist assistant message", "conversation_id", conversationID, "err", err)
	}
}
