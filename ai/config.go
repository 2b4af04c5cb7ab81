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


package ai

import (
	"errors"
	"strings"
)

// Configuration errors. A missing provider credential is fatal and surfaced
// immediately at construction, never retried.
var (
	// ErrAPIKeyMissing indicates no embedding provider credential is configured.
	ErrAPIKeyMissing = errors.New("ai config: embedding API key is required")

	// ErrCompleterKeyMissing indicates no completion provider credential is configured.
	ErrCompleterKeyMissing = errors.New("ai config: completion API key is required")
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.voyageai.com/v1" or any OpenAI-compatible server.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "voyage-2", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingAPIKey is the credential for the embedding provider.
	// Required: the pipeline refuses to start without it.
	EmbeddingAPIKey string

	// Dimension is the fixed embedding dimension D. Provider vectors are
	// truncated or zero-padded to this length before normalization.
	// Default: 1024
	Dimension int

	// CompletionModel is the model identifier for chat completions.
	CompletionModel string

	// CompletionAPIKey is the credential for the completion provider.
	// May be empty on ingest-only deployments; the chat orchestrator
	// fails at construction when it is missing.
	CompletionAPIKey string

	// MaxCompletionTokens bounds a single completion response.
	// Default: 800
	MaxCompletionTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingAPIKey sets the embedding provider credential.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithDimension sets the fixed embedding dimension.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithCompletionAPIKey sets the completion provider credential.
func WithCompletionAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.CompletionAPIKey = key
	}
}

// WithMaxCompletionTokens bounds a single completion response.
func WithMaxCompletionTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxCompletionTokens = n
	}
}

// DefaultConfig returns a Config with the deployment defaults.
// Credentials have no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:       "https://api.voyageai.com/v1",
		EmbeddingModel:      "voyage-2",
		Dimension:           1024,
		CompletionModel:     "claude-sonnet-4-5",
		MaxCompletionTokens: 800,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(key),
//	    ai.WithEmbeddingModel("voyage-2"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the embedding host if missing, which is required
// by OpenAI-compatible APIs.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete for embedding
// use. It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingAPIKey == "" {
		return ErrAPIKeyMissing
	}
	if c.Dimension < 1 {
		return errors.New("ai config: Dimension must be positive")
	}
	return nil
}

// ValidateCompletion checks the fields the chat completer needs.
func (c *Config) ValidateCompletion() error {
	if c.CompletionAPIKey == "" {
		return ErrCompleterKeyMissing
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	if c.MaxCompletionTokens < 1 {
		return errors.New("ai config: MaxCompletionTokens must be positive")
	}
	return nil
}
