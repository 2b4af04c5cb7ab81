package server

import (
	"net/http"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/chat"
	"github.com/sanare-ai/docpilot/core"
)

type chatHistoryEntry struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type chatRequest struct {
	TenantID       string             `json:"tenant_id" validate:"required,tenant"`
	Message        string             `json:"message" validate:"required"`
	Screen         chat.ScreenContext `json:"screen"`
	History        []chatHistoryEntry `json:"history" validate:"omitempty,dive"`
	ConversationID string             `json:"conversation_id"`
}

type chatChunk struct {
	Content   string  `json:"content"`
	SourceURL string  `json:"source_url"`
	Score     float32 `json:"score"`
}

type chatResponse struct {
	Response string      `json:"response"`
	Chunks   []chatChunk `json:"chunks,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	history := make([]ai.ChatMessage, 0, len(req.History))
	for _, entry := range req.History {
		history = append(history, ai.ChatMessage{Role: entry.Role, Content: entry.Content})
	}

	response, err := s.app.Chat().Answer(r.Context(), chat.Request{
		TenantID:       req.TenantID,
		Message:        req.Message,
		Screen:         req.Screen,
		History:        history,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: response.Answer,
		Chunks:   toChatChunks(response.Chunks),
	})
}

func toChatChunks(chunks []*core.RetrievedChunk) []chatChunk {
	out := make([]chatChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, chatChunk{
			Content:   c.Content,
			SourceURL: c.SourceURL,
			Score:     c.Score,
		})
	}
	return out
}
