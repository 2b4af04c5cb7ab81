// Copyright 2025 Sanare AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sanare-ai/docpilot/config"
	"github.com/sanare-ai/docpilot/core"
)

type onboardingStartRequest struct {
	TenantID    string `json:"tenant_id" validate:"required,tenant"`
	RootURL     string `json:"root_url" validate:"required,url"`
	ProductName string `json:"product_name"`
	MaxPages    int    `json:"max_pages" validate:"omitempty,min=1"`
}

type onboardingStartResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	MaxPages int    `json:"max_pages"`
}

type onboardingStatusResponse struct {
	*core.OnboardingJob
	Percent int `json:"percent"`
}

// handleOnboardingStart creates a pending job row and hands it to the
// background runner. Responds 202 immediately; progress is polled via
// the status endpoint.
func (s *Server) handleOnboardingStart(w http.ResponseWriter, r *http.Request) {
	var req onboardingStartRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	maxPages := req.MaxPages
	if maxPages < 1 {
		maxPages = s.app.Config().Crawler.MaxPages
	}
	if maxPages > config.MaxPagesLimit {
		maxPages = config.MaxPagesLimit
	}

	job := &core.OnboardingJob{
		Id:          uuid.NewString(),
		TenantID:    req.TenantID,
		RootURL:     req.RootURL,
		ProductName: req.ProductName,
		Status:      core.JobStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.app.JobRepository().AddJob(r.Context(), job); err != nil {
		s.writeDomainError(w, err)
		return
	}

	if err := s.app.Runner().Start(job.Id, maxPages); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, onboardingStartResponse{
		JobID:    job.Id,
		Status:   "started",
		MaxPages: maxPages,
	})
}

func (s *Server) handleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.app.JobRepository().GetJob(r.Context(), r.PathValue("job_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, onboardingStatusResponse{
		OnboardingJob: job,
		Percent:       job.Percent(),
	})
}
