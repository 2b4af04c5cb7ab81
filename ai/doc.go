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


// Package ai provides abstractions for the AI services used in docpilot.
//
// This package defines interfaces for text embeddings and chat completions.
// It follows the dependency inversion principle, allowing the ingestion
// pipeline and retrieval layer to depend on abstractions rather than concrete
// provider implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates fixed-dimension unit vectors from text
//   - Completer: Produces an answer from a prompt, history and message
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Embeddings via any OpenAI-compatible embedding API
//   - ai/anthropic: Completions via the Anthropic API
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder, anthropic.NewCompleter) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockCompleter) return concrete types to
// enable behavior injection and call assertions.
//
// # Vector Post-Processing
//
// Every embedding leaving this package has exactly the configured dimension
// and unit L2 norm: provider vectors are truncated or zero-padded via
// FitDimension, then normalized via Normalize. Distance comparisons in the
// store rely on this invariant.
package ai
