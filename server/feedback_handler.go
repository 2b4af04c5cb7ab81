package server

import (
	"net/http"
	"time"

	"github.com/sanare-ai/docpilot/core"
)

type feedbackCreateRequest struct {
	TenantID string `json:"tenant_id" validate:"required,tenant"`
	Message  string `json:"message"`
	Response string `json:"response"`
	Rating   string `json:"rating" validate:"required,oneof=positive negative"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackCreateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	feedback := &core.Feedback{
		TenantID:  req.TenantID,
		Message:   req.Message,
		Response:  req.Response,
		Rating:    core.FeedbackRating(req.Rating),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.app.FeedbackRepository().AddFeedback(r.Context(), feedback); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedback)
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id query parameter is required")
		return
	}

	entries, err := s.app.FeedbackRepository().ListByTenant(r.Context(), tenantID, queryLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"feedback":  entries,
	})
}
