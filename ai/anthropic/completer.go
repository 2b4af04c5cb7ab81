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


package anthropic

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// Completer implements ai.Completer using the Anthropic chat API.
type Completer struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.ValidateCompletion(); err != nil {
		return nil, err
	}

	client, err := anthropic.New(
		anthropic.WithToken(config.CompletionAPIKey),
		anthropic.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:    client,
		maxTokens: config.MaxCompletionTokens,
		logger:    slog.Default().With("component", "anthropic-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates the assistant's answer from the system prompt, the prior
// conversation turns and the current user message.
func (c *Completer) Complete(ctx context.Context, systemPrompt string, history []ai.ChatMessage, message string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
	})

	for _, entry := range history {
		role := llms.ChatMessageTypeHuman
		if entry.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(entry.Content)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(message)},
	})

	response, err := c.client.GenerateContent(ctx, content, llms.WithMaxTokens(c.maxTokens))
	if err != nil {
		c.logger.Error("completion request failed", "err", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		c.logger.Warn("no choices returned from model")
		return "", errors.New("anthropic: empty completion response")
	}

	return response.Choices[0].Content, nil
}
