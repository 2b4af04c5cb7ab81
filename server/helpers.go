package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/sanare-ai/docpilot/chat"
	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/crawl"
	"github.com/sanare-ai/docpilot/extract"
	"github.com/sanare-ai/docpilot/storage"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a standard error JSON response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// decodeJSON parses the request body into dst and validates it.
// Writes the error response itself; callers bail out on false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Namespace())
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidQuery),
		errors.Is(err, core.ErrEmptyTenant),
		errors.Is(err, core.ErrInvalidTenant),
		errors.Is(err, core.ErrEmptyContent),
		errors.Is(err, core.ErrInvalidRating),
		errors.Is(err, core.ErrInvalidRole),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, crawl.ErrInvalidRootURL),
		errors.Is(err, extract.ErrInvalidPDF):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// queryLimit reads a non-negative "limit" query parameter, 0 when absent.
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
