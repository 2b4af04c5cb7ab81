package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sanare-ai/docpilot/core"
)

// maxPDFUploadBytes bounds a single PDF upload.
const maxPDFUploadBytes = 32 << 20

type ingestURLRequest struct {
	TenantID string `json:"tenant_id" validate:"required,tenant"`
	URL      string `json:"url" validate:"required,url"`
}

func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req ingestURLRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Pipeline().IngestURL(r.Context(), req.TenantID, req.URL)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleIngestPDF accepts a multipart upload with a "tenant_id" field
// and a "file" part holding the PDF bytes.
func (s *Server) handleIngestPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	tenantID := r.FormValue("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}
	if err := core.ValidateTenantID(tenantID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		writeError(w, http.StatusBadRequest, "only PDF uploads are supported")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPDFUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	result, err := s.app.Pipeline().IngestPDF(r.Context(), tenantID, header.Filename, data)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
