package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

func newConversationRepo(t *testing.T) (storage.ConversationRepository, *Backend) {
	t.Helper()

	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	repo, err := NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		t.Fatalf("Failed to create repository: %v", err)
	}
	return repo, backend
}

func TestConversationBasics(t *testing.T) {
	repo, backend := newConversationRepo(t)
	defer backend.Close()

	ctx := context.Background()

	conversation := &core.Conversation{Id: "conv-1", TenantID: "pharmacy-a"}
	if err := repo.AddConversation(ctx, conversation); err != nil {
		t.Fatalf("Failed to add conversation: %v", err)
	}
	if conversation.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	stored, err := repo.GetConversation(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Failed to get conversation: %v", err)
	}
	if stored.TenantID != "pharmacy-a" {
		t.Fatalf("Unexpected tenant %q", stored.TenantID)
	}

	if _, err := repo.GetConversation(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

// A conversation ID containing the key separator would let its messages
// land under another conversation's iteration prefix.
func TestConversationSeparatorRejected(t *testing.T) {
	repo, backend := newConversationRepo(t)
	defer backend.Close()

	ctx := context.Background()

	err := repo.AddConversation(ctx, &core.Conversation{Id: "conv-1:forged", TenantID: "pharmacy-a"})
	if !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for ':' in conversation id, got %v", err)
	}

	err = repo.AddConversation(ctx, &core.Conversation{Id: "conv-1", TenantID: "pharmacy-a:other"})
	if !errors.Is(err, core.ErrInvalidTenant) {
		t.Fatalf("Expected ErrInvalidTenant for ':' in tenant, got %v", err)
	}
}

func TestConversationMessageOrdering(t *testing.T) {
	repo, backend := newConversationRepo(t)
	defer backend.Close()

	ctx := context.Background()

	if err := repo.AddConversation(ctx, &core.Conversation{Id: "conv-2", TenantID: "t1"}); err != nil {
		t.Fatalf("Failed to add conversation: %v", err)
	}

	base := time.Now().UTC()
	turns := []struct {
		role    core.MessageRole
		content string
		at      time.Time
	}{
		{core.RoleUser, "How do I sync orders?", base},
		{core.RoleAssistant, "Orders sync every fifteen minutes.", base.Add(time.Second)},
		{core.RoleUser, "Can I trigger it manually?", base.Add(2 * time.Second)},
	}
	for _, turn := range turns {
		msg := &core.Message{
			ConversationID: "conv-2",
			Role:           turn.role,
			Content:        turn.content,
			CreatedAt:      turn.at,
		}
		if err := repo.AddMessage(ctx, msg); err != nil {
			t.Fatalf("Failed to add message: %v", err)
		}
	}

	messages, err := repo.GetMessages(ctx, "conv-2", 0)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	for i, turn := range turns {
		if messages[i].Content != turn.content {
			t.Fatalf("Message %d out of order: %q", i, messages[i].Content)
		}
	}

	// Limit keeps the most recent turns.
	recent, err := repo.GetMessages(ctx, "conv-2", 2)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(recent))
	}
	if recent[0].Content != turns[1].content || recent[1].Content != turns[2].content {
		t.Fatalf("Limit kept wrong messages: %q, %q", recent[0].Content, recent[1].Content)
	}
}

func TestConversationMessageRequiresConversation(t *testing.T) {
	repo, backend := newConversationRepo(t)
	defer backend.Close()

	msg := &core.Message{
		ConversationID: "missing",
		Role:           core.RoleUser,
		Content:        "hello",
	}
	if err := repo.AddMessage(context.Background(), msg); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFeedbackBasics(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	repo, err := NewFeedbackRepository(backend)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	ctx := context.Background()

	entries := []*core.Feedback{
		{TenantID: "t1", Message: "q1", Response: "a1", Rating: core.RatingPositive},
		{TenantID: "t1", Message: "q2", Response: "a2", Rating: core.RatingNegative},
		{TenantID: "t2", Message: "q3", Response: "a3", Rating: core.RatingPositive},
	}
	for i, entry := range entries {
		entry.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := repo.AddFeedback(ctx, entry); err != nil {
			t.Fatalf("Failed to add feedback: %v", err)
		}
	}

	stored, err := repo.ListByTenant(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("Failed to list feedback: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(stored))
	}
	if stored[0].Message != "q1" || stored[1].Message != "q2" {
		t.Fatalf("Entries out of order: %q, %q", stored[0].Message, stored[1].Message)
	}
	for _, entry := range stored {
		if entry.TenantID != "t1" {
			t.Fatalf("Feedback leaked from tenant %q", entry.TenantID)
		}
	}

	bad := &core.Feedback{TenantID: "t1", Message: "q", Rating: "meh"}
	if err := repo.AddFeedback(ctx, bad); !errors.Is(err, core.ErrInvalidRating) {
		t.Fatalf("Expected ErrInvalidRating, got %v", err)
	}
}
