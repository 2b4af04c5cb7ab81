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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidJob indicates an OnboardingJob failed validation.
	ErrInvalidJob = errors.New("invalid onboarding job")

	// ErrEmptyTenant indicates the TenantID field is empty.
	ErrEmptyTenant = errors.New("tenant id cannot be empty")

	// ErrInvalidTenant indicates a TenantID with an illegal character.
	ErrInvalidTenant = errors.New("tenant id cannot contain ':'")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyRootURL indicates the RootURL field is empty.
	ErrEmptyRootURL = errors.New("root url cannot be empty")

	// ErrInvalidStatus indicates an unknown JobStatus value.
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrInvalidTransition indicates an illegal job status transition.
	ErrInvalidTransition = errors.New("illegal status transition")

	// ErrInvalidRole indicates an unknown MessageRole value.
	ErrInvalidRole = errors.New("invalid message role")

	// ErrInvalidRating indicates an unknown FeedbackRating value.
	ErrInvalidRating = errors.New("invalid feedback rating")
)
