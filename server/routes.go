package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /onboarding/start", s.handleOnboardingStart)
	mux.HandleFunc("GET /onboarding/status/{job_id}", s.handleOnboardingStatus)

	mux.HandleFunc("POST /ingest/url", s.handleIngestURL)
	mux.HandleFunc("POST /ingest/pdf", s.handleIngestPDF)

	mux.HandleFunc("POST /chat", s.handleChat)

	mux.HandleFunc("POST /conversations", s.handleCreateConversation)
	mux.HandleFunc("GET /conversations/{id}/messages", s.handleGetMessages)
	mux.HandleFunc("POST /conversations/{id}/messages", s.handleAddMessage)

	mux.HandleFunc("POST /feedback", s.handleAddFeedback)
	mux.HandleFunc("GET /feedback", s.handleListFeedback)

	return mux
}
