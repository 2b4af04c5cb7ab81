package ai

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dimension != 1024 {
		t.Errorf("Dimension = %d, want 1024", cfg.Dimension)
	}
	if cfg.MaxCompletionTokens != 800 {
		t.Errorf("MaxCompletionTokens = %d, want 800", cfg.MaxCompletionTokens)
	}
	if cfg.EmbeddingAPIKey != "" {
		t.Error("credentials must have no default")
	}
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://localhost:11434"),
		WithEmbeddingModel("embeddinggemma"),
		WithEmbeddingAPIKey("k"),
		WithDimension(512),
	)

	if cfg.EmbeddingModel != "embeddinggemma" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.Dimension != 512 {
		t.Errorf("Dimension = %d, want 512", cfg.Dimension)
	}
}

func TestConfig_Normalize_AddsV1Suffix(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		cfg := NewConfig(WithEmbeddingHost(tt.host))
		cfg.Normalize()
		if cfg.EmbeddingHost != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.host, cfg.EmbeddingHost, tt.want)
		}
	}
}

func TestConfig_Validate_MissingKey(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("Validate() error = %v, want ErrAPIKeyMissing", err)
	}

	cfg.EmbeddingAPIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestConfig_ValidateCompletion(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateCompletion(); !errors.Is(err, ErrCompleterKeyMissing) {
		t.Errorf("ValidateCompletion() error = %v, want ErrCompleterKeyMissing", err)
	}

	cfg.CompletionAPIKey = "secret"
	if err := cfg.ValidateCompletion(); err != nil {
		t.Errorf("ValidateCompletion() unexpected error: %v", err)
	}
}
