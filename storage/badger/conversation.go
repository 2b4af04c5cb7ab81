package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/storage"
)

// ConversationRepository implements storage.ConversationRepository for BadgerDB.
type ConversationRepository struct {
	backend *Backend
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) (*ConversationRepository, error) {
	return &ConversationRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ConversationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ConversationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddConversation stores a new conversation.
func (r *ConversationRepository) AddConversation(ctx context.Context, conversation *core.Conversation) error {
	// The ID becomes a key segment, so it must not contain the separator.
	if conversation.Id == "" || strings.ContainsRune(conversation.Id, ':') {
		return fmt.Errorf("%w: conversation id", storage.ErrInvalidQuery)
	}
	if err := core.ValidateTenantID(conversation.TenantID); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if conversation.CreatedAt.IsZero() {
			conversation.CreatedAt = time.Now().UTC()
		}

		value, err := storage.Marshal(conversation)
		if err != nil {
			return err
		}
		if err := tx.Set(makeConversationKey(conversation.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetConversation retrieves a conversation by ID.
func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (*core.Conversation, error) {
	var conversation *core.Conversation

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConversationKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			conversation, err = storage.UnmarshalConversation(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// AddMessage appends a message to an existing conversation.
func (r *ConversationRepository) AddMessage(ctx context.Context, message *core.Message) error {
	if err := core.ValidateRole(message.Role); err != nil {
		return err
	}
	if message.ConversationID == "" || message.Content == "" {
		return storage.ErrInvalidQuery
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		// The conversation must exist before messages attach to it.
		if _, err := tx.Get(makeConversationKey(message.ConversationID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		if message.CreatedAt.IsZero() {
			message.CreatedAt = time.Now().UTC()
		}
		if message.Id == 0 {
			message.Id = core.IDFromContent(message.ConversationID + "\x00" +
				message.CreatedAt.Format(time.RFC3339Nano) + "\x00" + message.Content)
		}

		value, err := storage.Marshal(message)
		if err != nil {
			return err
		}
		key := makeMessageKey(message.ConversationID, message.CreatedAt, message.Id)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMessages returns a conversation's messages in chronological order.
// When limit > 0 only the most recent limit messages are kept.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID string, limit int) ([]*core.Message, error) {
	if conversationID == "" {
		return nil, storage.ErrInvalidQuery
	}

	var messages []*core.Message

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeConversationMessagePrefix(conversationID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var message *core.Message
			err := iter.Item().Value(func(val []byte) error {
				var err error
				message, err = storage.UnmarshalMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}
