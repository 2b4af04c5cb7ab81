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


// Package storage provides the storage abstraction layer for docpilot.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, so different backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Tenant Scoping
//
// Every document read and write takes an explicit tenant ID. There is no
// ambient tenant: a repository never infers which tenant a caller means,
// and no query can return rows belonging to more than one tenant.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - DocumentRepository: embedded chunk storage and nearest-neighbor search
//   - JobRepository: onboarding job rows and status transitions
//   - ConversationRepository: widget conversations and messages
//   - FeedbackRepository: answer feedback entries
//
// # Usage
//
// Create repositories over a shared backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	documents, err := badger.NewDocumentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	backend, _ := badger.OpenBackend("", true)
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
