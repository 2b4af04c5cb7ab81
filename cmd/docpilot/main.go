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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	docpilot "github.com/sanare-ai/docpilot"
	"github.com/sanare-ai/docpilot/ai"
	"github.com/sanare-ai/docpilot/ai/openai"
	"github.com/sanare-ai/docpilot/config"
	"github.com/sanare-ai/docpilot/reembed"
	"github.com/sanare-ai/docpilot/retrieval"
	"github.com/sanare-ai/docpilot/server"
	"github.com/sanare-ai/docpilot/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "docpilot",
		Usage: "Multi-tenant documentation assistant backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   "docpilot.toml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Bind address, overrides the config file",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Listen port, overrides the config file",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory, overrides the config file",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate the stored embeddings of a tenant's chunks",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory, overrides the config file",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Delay between embedding attempts",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a retrieval query against a tenant's corpus",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory, overrides the config file",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to return",
						Value:   5,
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a single documentation page for a tenant",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "Page URL to fetch and ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory, overrides the config file",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env credentials and configures the default logger. The
// log-level flag wins over the config file when both are set.
func setup(c *cli.Context) error {
	godotenv.Load()

	levelStr := c.String("log-level")
	if levelStr == "" {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		levelStr = cfg.Logging.Level
	}
	return setupLogger(levelStr)
}

func setupLogger(levelStr string) error {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if host := c.String("host"); host != "" {
		cfg.Server.Host = host
	}
	if port := c.Int("port"); port != 0 {
		cfg.Server.Port = port
	}
	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	return cfg, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	app, err := docpilot.NewApp(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.Close()

	srv := server.New(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// reembedCommand wires storage and the embedding provider directly,
// skipping the completion credential the full app would demand.
func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer backend.Close()

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return err
	}

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithEmbeddingAPIKey(cfg.AI.EmbeddingAPIKey),
		ai.WithDimension(cfg.AI.Dimension),
	))
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	reembedder, err := reembed.NewReembedder(documents, embedder, &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}, os.Stderr)
	if err != nil {
		return err
	}

	return reembedder.Run(c.Context, c.String("tenant"))
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer backend.Close()

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return err
	}

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithEmbeddingAPIKey(cfg.AI.EmbeddingAPIKey),
		ai.WithDimension(cfg.AI.Dimension),
	))
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	retriever, err := retrieval.NewRetriever(documents, embedder,
		retrieval.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}

	chunks, err := retriever.Retrieve(c.Context, c.String("tenant"), query)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(chunks))
	for i, chunk := range chunks {
		fmt.Printf("%d: %s [%.4f]\n   %s\n", i+1, chunk.SourceURL, chunk.Score, chunk.Content)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	app, err := docpilot.NewApp(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.Close()

	result, err := app.Pipeline().IngestURL(context.Background(), c.String("tenant"), c.String("url"))
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", c.String("url"), err)
	}

	slog.Info("page ingested",
		"tenant", result.TenantID,
		"source", result.SourceURL,
		"chunks", result.ChunksIngested)
	return nil
}
