// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            build info
//	POST /v1/layout          scene JSON in, layout JSON out
//	POST /v1/render?format=  scene JSON in, one rendered artifact out
//	GET  /v1/stats           recompute, cache and request counters
//
// Seeds are scoped to a session carried in the X-Linkdrift-Session header.
// A request without one (or with an expired one) gets a new session, and the
// id is always echoed back on the response.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/linkdrift/pkg/config"
	"github.com/matzehuels/linkdrift/pkg/observability"
	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/session"
)

// SessionHeader carries the session id on requests and responses.
const SessionHeader = "X-Linkdrift-Session"

// cleanupInterval is how often expired sessions are dropped.
const cleanupInterval = time.Minute

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions *session.MemoryStore
	counters *observability.Counters
	cfg      config.Config
	logger   *log.Logger
	router   chi.Router
}

// New creates a server and registers its counters as the global
// observability hooks.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		sessions: session.NewMemoryStore(),
		counters: observability.NewCounters(),
		cfg:      cfg,
		logger:   logger,
	}
	observability.SetEngineHooks(s.counters)
	observability.SetCacheHooks(s.counters)
	observability.SetHTTPHooks(s.counters)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Group(func(r chi.Router) {
			r.Use(s.limitBody)
			r.Use(s.withSession)
			r.Post("/layout", s.handleLayout)
			r.Post("/render", s.handleRender)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
