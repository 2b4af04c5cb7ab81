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


package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	docpilot "github.com/sanare-ai/docpilot"
	"github.com/sanare-ai/docpilot/core"
)

// Server exposes the application over HTTP.
type Server struct {
	app      *docpilot.App
	router   *http.ServeMux
	server   *http.Server
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates an HTTP server wrapping the given app.
func New(app *docpilot.App) *Server {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("tenant", func(fl validator.FieldLevel) bool {
		return core.ValidateTenantID(fl.Field().String()) == nil
	})

	s := &Server{
		app:      app,
		validate: validate,
		logger:   slog.Default().With("component", "server"),
	}
	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", app.Config().Server.Host, app.Config().Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
