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


package core

import (
	"fmt"
	"strings"
)

// ValidateTenantID validates a tenant identifier. The ':' byte separates
// storage key segments, so a tenant containing it would alias the key
// prefix of another tenant.
func ValidateTenantID(tenantID string) error {
	if tenantID == "" {
		return ErrEmptyTenant
	}
	if strings.ContainsRune(tenantID, ':') {
		return fmt.Errorf("%w: %q", ErrInvalidTenant, tenantID)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - TenantID must be a valid tenant identifier
//   - Content must not be empty
//
// NOT validated:
//   - Embedding dimension (enforced by the embedder before storage)
//   - SourceURL (uploads may carry only a file name)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if err := ValidateTenantID(chunk.TenantID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	return nil
}

// ValidateJob validates an OnboardingJob according to domain rules.
//
// Validation rules:
//   - TenantID must be a valid tenant identifier
//   - RootURL must not be empty
//   - Status must be a known value
func ValidateJob(job *OnboardingJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if err := ValidateTenantID(job.TenantID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.RootURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyRootURL)
	}

	if err := ValidateStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	return nil
}

// ValidateStatus validates that a JobStatus has a known value.
func ValidateStatus(status JobStatus) error {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// ValidateRole validates that a MessageRole has a known value.
func ValidateRole(role MessageRole) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}

// ValidateRating validates that a FeedbackRating has a known value.
func ValidateRating(rating FeedbackRating) error {
	if rating != RatingPositive && rating != RatingNegative {
		return fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}
	return nil
}
