// Package server implements the exprtex HTTP API.
//
// The API exposes the same pipeline the CLI uses:
//
//	POST /v1/render            render expressions, returns markup + artifact
//	GET  /v1/formulas          list recently archived formulas
//	GET  /v1/formulas/{digest} fetch one archived formula
//	GET  /v1/healthz           liveness probe with build info
//
// Rendered formulas are archived by source digest so clients can fetch
// them back without re-rendering. Artifact bytes travel base64-encoded
// inside the JSON response.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/exprtex/exprtex/pkg/archive"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":2718"

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Config carries the server's dependencies.
type Config struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// Runner executes render requests. Required.
	Runner *pipeline.Runner

	// Archive stores rendered formulas. Nil means an in-memory archive.
	Archive archive.Archive

	// Logger receives request logs. Nil means the default logger.
	Logger *log.Logger
}

// Server is the exprtex HTTP API server.
type Server struct {
	addr    string
	runner  *pipeline.Runner
	archive archive.Archive
	logger  *log.Logger
	router  chi.Router
}

// New creates a server and builds its route table.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Archive == nil {
		cfg.Archive = archive.NewMemoryArchive()
	}

	s := &Server{
		addr:    cfg.Addr,
		runner:  cfg.Runner,
		archive: cfg.Archive,
		logger:  cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// routes builds the chi router with the full middleware chain.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Post("/render", s.handleRender)
		r.Route("/formulas", func(r chi.Router) {
			r.Get("/", s.handleListFormulas)
			r.Get("/{digest}", s.handleGetFormula)
		})
	})

	return r
}

// Handler returns the server's HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
