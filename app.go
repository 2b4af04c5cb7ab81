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


package docpilot

import (
	"log/slog"

	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/ai/provider"
	"github.com/sanare-ai/docpilot/chat"
	"github.com/sanare-ai/docpilot/config"
	"github.com/sanare-ai/docpilot/crawl"
	"github.com/sanare-ai/docpilot/ingestion"
	"github.com/sanare-ai/docpilot/onboarding"
	"github.com/sanare-ai/docpilot/retrieval"
	"github.com/sanare-ai/docpilot/storage"
	"github.com/sanare-ai/docpilot/storage/badger"
)

// App wires storage, AI providers, and the ingestion/retrieval/chat
// services from a single configuration. It owns the lifecycle of all of
// them; Close releases everything in reverse construction order.
type App struct {
	cfg           *config.Config
	backend       *badger.Backend
	documents     storage.DocumentRepository
	jobs          storage.JobRepository
	conversations storage.ConversationRepository
	feedback      storage.FeedbackRepository
	provider      ai.Provider
	pipeline      *ingestion.Pipeline
	runner        *onboarding.Runner
	retriever     *retrieval.Retriever
	chat          *chat.Orchestrator
	logger        *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	provider ai.Provider
	inMemory bool
}

// WithProvider injects a pre-built AI provider instead of constructing
// one from the configuration. Used by tests to wire mocks.
func WithProvider(p ai.Provider) AppOption {
	return func(o *appOptions) {
		o.provider = p
	}
}

// WithInMemoryStorage keeps all data in memory. Nothing survives Close.
func WithInMemoryStorage() AppOption {
	return func(o *appOptions) {
		o.inMemory = true
	}
}

func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	jobs, err := badger.NewJobRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	conversations, err := badger.NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	feedback, err := badger.NewFeedbackRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	aiProvider := options.provider
	if aiProvider == nil {
		aiProvider, err = provider.New(ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithEmbeddingAPIKey(cfg.AI.EmbeddingAPIKey),
			ai.WithDimension(cfg.AI.Dimension),
			ai.WithCompletionModel(cfg.AI.CompletionModel),
			ai.WithCompletionAPIKey(cfg.AI.CompletionAPIKey),
			ai.WithMaxCompletionTokens(cfg.AI.MaxCompletionTokens),
		))
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	fetcher, err := crawl.NewHTTPFetcher(
		crawl.WithFetchTimeout(cfg.Crawler.FetchTimeout()),
		crawl.WithRequestInterval(cfg.Crawler.RequestInterval()),
		crawl.WithUserAgent(cfg.Crawler.UserAgent),
	)
	if err != nil {
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(documents, aiProvider.Embedder(), fetcher,
		ingestion.WithChunking(cfg.Ingestion.ChunkSize, cfg.Ingestion.Overlap),
		ingestion.WithMinTextLength(cfg.Ingestion.MinTextLength),
		ingestion.WithRetryPolicy(cfg.Ingestion.EmbedMaxRetries, cfg.Ingestion.EmbedRetryDelay()),
	)
	if err != nil {
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	discoverer, err := crawl.NewDiscoverer(fetcher, crawl.WithMaxPages(cfg.Crawler.MaxPages))
	if err != nil {
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := onboarding.NewOrchestrator(jobs, discoverer, pipeline,
		onboarding.WithPageDelay(cfg.Crawler.PageDelay()),
	)
	if err != nil {
		aiProvider.Close()
		backend.Close()
		return nil, err
	}
	runner, err := onboarding.NewRunner(orchestrator)
	if err != nil {
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	retriever, err := retrieval.NewRetriever(documents, aiProvider.Embedder(),
		retrieval.WithTopK(cfg.Retrieval.TopK),
	)
	if err != nil {
		runner.Release()
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	chatOrchestrator, err := chat.NewOrchestrator(retriever, aiProvider.Completer(),
		chat.WithConversations(conversations),
		chat.WithMaxContextChars(cfg.Retrieval.MaxContextChars),
	)
	if err != nil {
		runner.Release()
		aiProvider.Close()
		backend.Close()
		return nil, err
	}

	return &App{
		cfg:           cfg,
		backend:       backend,
		documents:     documents,
		jobs:          jobs,
		conversations: conversations,
		feedback:      feedback,
		provider:      aiProvider,
		pipeline:      pipeline,
		runner:        runner,
		retriever:     retriever,
		chat:          chatOrchestrator,
		logger:        slog.Default(),
	}, nil
}

func (a *App) Close() error {
	// Stop accepting background jobs before tearing down their storage.
	a.runner.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) DocumentRepository() storage.DocumentRepository {
	return a.documents
}

func (a *App) JobRepository() storage.JobRepository {
	return a.jobs
}

func (a *App) ConversationRepository() storage.ConversationRepository {
	return a.conversations
}

func (a *App) FeedbackRepository() storage.FeedbackRepository {
	return a.feedback
}

func (a *App) Pipeline() *ingestion.Pipeline {
	return a.pipeline
}

func (a *App) Runner() *onboarding.Runner {
	return a.runner
}

func (a *App) Retriever() *retrieval.Retriever {
	return a.retriever
}

func (a *App) Chat() *chat.Orchestrator {
	return a.chat
}
