// Package server wires the country explorer together: the chi router with
// its middleware, the JSON API, the view route table and the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackielii/viewroutes"
	"github.com/jackielii/viewroutes/internal/config"
	"github.com/jackielii/viewroutes/internal/countries"
	"github.com/jackielii/viewroutes/internal/logging"
	"github.com/jackielii/viewroutes/internal/views"
)

// Server is the explorer's HTTP server.
type Server struct {
	http            *http.Server
	table           *viewroutes.Table
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New builds the router and route table for cfg. svc backs both the views and
// the JSON API.
func New(cfg *config.Config, svc *countries.Service, logger *slog.Logger) (*Server, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/countries", NewCountryHandler(svc, logger).Routes)

	notFound := views.NotFound(cfg.BasePath)
	r.NotFound(notFound.ServeHTTP)

	table := NewTable(cfg.BasePath, logger)
	if err := table.MountPages(viewroutes.NewChiRouter(r), views.Pages{}, "/", "Countries", svc); err != nil {
		return nil, fmt.Errorf("mount pages: %w", err)
	}

	return &Server{
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
			WriteTimeout: cfg.Server.WriteTimeoutDuration(),
			IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
		},
		table:           table,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

// NewTable creates the view route table served under basePath, without
// mounting any pages.
func NewTable(basePath string, logger *slog.Logger) *viewroutes.Table {
	return viewroutes.New(
		viewroutes.WithBasePath(basePath),
		viewroutes.WithDefaultPageConfig(viewroutes.HTMXPageConfig),
		viewroutes.WithNotFound(views.NotFound(basePath)),
		viewroutes.WithErrorHandler(views.ErrorHandler(logger, basePath)),
	)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Table returns the view route table.
func (s *Server) Table() *viewroutes.Table { return s.table }

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "base_path", s.table.BasePath())
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server shutdown complete")
	return nil
}
