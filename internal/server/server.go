// Package server exposes the solve pipeline and scene store over HTTP.
//
// Routes:
//
//	POST   /v1/solve             solve a spec, persist and return the scene
//	GET    /v1/scenes            list stored scene IDs
//	GET    /v1/scenes/{id}       fetch a stored scene as JSON
//	GET    /v1/scenes/{id}/render?format=text|dot|svg
//	DELETE /v1/scenes/{id}       remove a stored scene
//	GET    /healthz              liveness probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MaxBodyBytes caps the size of request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// Timeout bounds each solve request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Server routes HTTP requests to the pipeline runner and scene store.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a Server. The runner and store must be non-nil; the logger
// defaults to log.Default.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger,
	}
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
		r.Post("/solve", s.handleSolve)
		r.Get("/scenes", s.handleListScenes)
		r.Route("/scenes/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetScene)
			r.Get("/render", s.handleRenderScene)
			r.Delete("/", s.handleDeleteScene)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
