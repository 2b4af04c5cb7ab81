package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sanare-ai/docpilot/core"
)

type conversationCreateRequest struct {
	TenantID string `json:"tenant_id" validate:"required,tenant"`
}

type messageCreateRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationCreateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	conversation := &core.Conversation{
		Id:        uuid.NewString(),
		TenantID:  req.TenantID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.app.ConversationRepository().AddConversation(r.Context(), conversation); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversation)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// A missing conversation is 404, not an empty transcript.
	if _, err := s.app.ConversationRepository().GetConversation(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	messages, err := s.app.ConversationRepository().GetMessages(r.Context(), id, queryLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"messages":        messages,
	})
}

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req messageCreateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	message := &core.Message{
		ConversationID: r.PathValue("id"),
		Role:           core.MessageRole(req.Role),
		Content:        req.Content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.app.ConversationRepository().AddMessage(r.Context(), message); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
