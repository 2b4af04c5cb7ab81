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


// Package provider assembles the production ai.Provider: an
// OpenAI-compatible embedding client plus an Anthropic completion
// client sharing one configuration.
package provider

import (
	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/ai/anthropic"
	"github.com/sanare-ai/docpilot/ai/openai"
)

type provider struct {
	embedder  ai.Embedder
	completer ai.Completer
}

var _ ai.Provider = (*provider)(nil)

// New creates a provider from config. Both the embedding and the
// completion credentials must be set.
func New(config *ai.Config) (ai.Provider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	completer, err := anthropic.NewCompleter(config)
	if err != nil {
		return nil, err
	}

	return &provider{embedder: embedder, completer: completer}, nil
}

func (p *provider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *provider) Completer() ai.Completer {
	return p.completer
}

// Close releases provider resources. The underlying HTTP clients hold
// no long-lived connections beyond their pools.
func (p *provider) Close() error {
	return nil
}
