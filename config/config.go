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


package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// MaxPagesLimit is the hard ceiling on pages per onboarding job,
// whatever the config or request says.
const MaxPagesLimit = 500

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	AI        AIConfig        `toml:"ai"`
	Crawler   CrawlerConfig   `toml:"crawler"`
	Ingestion IngestionConfig `toml:"ingestion"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type StorageConfig struct {
	Path string `toml:"path"` // Database directory path
}

type AIConfig struct {
	EmbeddingHost       string `toml:"embedding_host"`
	EmbeddingModel      string `toml:"embedding_model"`
	EmbeddingAPIKey     string `toml:"embedding_api_key"`
	Dimension           int    `toml:"dimension"`
	CompletionModel     string `toml:"completion_model"`
	CompletionAPIKey    string `toml:"completion_api_key"`
	MaxCompletionTokens int    `toml:"max_completion_tokens"`
}

type CrawlerConfig struct {
	MaxPages               int    `toml:"max_pages"`                // Default page budget per onboarding job
	UserAgent              string `toml:"user_agent"`               // User agent sent with page requests, empty keeps the built-in one
	FetchTimeoutSeconds    int    `toml:"fetch_timeout_seconds"`    // Per-request timeout
	PageDelaySeconds       int    `toml:"page_delay_seconds"`       // Pause between onboarding pages
	RequestIntervalSeconds int    `toml:"request_interval_seconds"` // Minimum spacing between page requests, 0 disables
}

type IngestionConfig struct {
	ChunkSize              int `toml:"chunk_size"` // Words per chunk
	Overlap                int `toml:"overlap"`    // Words shared between neighboring chunks
	MinTextLength          int `toml:"min_text_length"`
	EmbedMaxRetries        int `toml:"embed_max_retries"`
	EmbedRetryDelaySeconds int `toml:"embed_retry_delay_seconds"`
}

type RetrievalConfig struct {
	TopK            int `toml:"top_k"`
	MaxContextChars int `toml:"max_context_chars"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "json" or "text"
}

// FetchTimeout returns the crawler request timeout as a duration.
func (c CrawlerConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// PageDelay returns the onboarding inter-page pause as a duration.
func (c CrawlerConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySeconds) * time.Second
}

// RequestInterval returns the minimum spacing between page requests.
func (c CrawlerConfig) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalSeconds) * time.Second
}

// EmbedRetryDelay returns the pause between embedding attempts.
func (c IngestionConfig) EmbedRetryDelay() time.Duration {
	return time.Duration(c.EmbedRetryDelaySeconds) * time.Second
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "./data/docpilot",
		},
		AI: AIConfig{
			EmbeddingHost:       "https://api.voyageai.com/v1",
			EmbeddingModel:      "voyage-2",
			Dimension:           1024,
			CompletionModel:     "claude-sonnet-4-5",
			MaxCompletionTokens: 800,
		},
		Crawler: CrawlerConfig{
			MaxPages:               50,
			FetchTimeoutSeconds:    30,
			PageDelaySeconds:       25,
			RequestIntervalSeconds: 1,
		},
		Ingestion: IngestionConfig{
			ChunkSize:              500,
			Overlap:                50,
			MinTextLength:          50,
			EmbedMaxRetries:        3,
			EmbedRetryDelaySeconds: 30,
		},
		Retrieval: RetrievalConfig{
			TopK:            5,
			MaxContextChars: 6000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration file at path (optional), applies
// environment overrides, and validates the result. A missing file is
// not an error: defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Credentials in particular normally arrive this way, never from the file.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DOCPILOT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("DOCPILOT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if path := os.Getenv("DOCPILOT_DATA_PATH"); path != "" {
		cfg.Storage.Path = path
	}

	if key := os.Getenv("DOCPILOT_EMBEDDING_API_KEY"); key != "" {
		cfg.AI.EmbeddingAPIKey = key
	} else if key := os.Getenv("VOYAGE_API_KEY"); key != "" {
		cfg.AI.EmbeddingAPIKey = key
	}
	if key := os.Getenv("DOCPILOT_COMPLETION_API_KEY"); key != "" {
		cfg.AI.CompletionAPIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.AI.CompletionAPIKey = key
	}
	if host := os.Getenv("DOCPILOT_EMBEDDING_HOST"); host != "" {
		cfg.AI.EmbeddingHost = host
	}
	if model := os.Getenv("DOCPILOT_EMBEDDING_MODEL"); model != "" {
		cfg.AI.EmbeddingModel = model
	}
	if model := os.Getenv("DOCPILOT_COMPLETION_MODEL"); model != "" {
		cfg.AI.CompletionModel = model
	}
	if dim := os.Getenv("DOCPILOT_EMBEDDING_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			cfg.AI.Dimension = d
		}
	}

	if level := os.Getenv("DOCPILOT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("DOCPILOT_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.AI.Dimension < 1 {
		return errors.New("embedding dimension must be positive")
	}
	if c.Crawler.MaxPages < 1 || c.Crawler.MaxPages > MaxPagesLimit {
		return fmt.Errorf("crawler max_pages must be between 1 and %d", MaxPagesLimit)
	}
	if c.Crawler.RequestIntervalSeconds < 0 {
		return errors.New("request_interval_seconds must be non-negative")
	}
	if c.Ingestion.ChunkSize < 1 {
		return errors.New("chunk_size must be positive")
	}
	if c.Ingestion.Overlap < 0 || c.Ingestion.Overlap >= c.Ingestion.ChunkSize {
		return errors.New("overlap must be non-negative and smaller than chunk_size")
	}
	if c.Ingestion.EmbedMaxRetries < 1 {
		return errors.New("embed_max_retries must be positive")
	}
	if c.Retrieval.TopK < 1 {
		return errors.New("top_k must be positive")
	}
	if c.Retrieval.MaxContextChars < 1 {
		return errors.New("max_context_chars must be positive")
	}
	return nil
}
