// Package server exposes the badge editor core over HTTP for the host
// application: field catalogue, document validation, per-attendee
// resolution, preview rendering and template storage.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/badgeboard/internal/metrics"
	"github.com/matzehuels/badgeboard/pkg/pipeline"
	"github.com/matzehuels/badgeboard/pkg/store"
)

// DefaultMaxBody bounds request bodies (documents with inline images).
const DefaultMaxBody = 8 << 20

// Config configures a Server.
type Config struct {
	Logger *log.Logger // defaults to log.Default()
	Store  store.Store // nil disables /templates
	Runner *pipeline.Runner

	// Registry receives the HTTP and hook collectors and backs /metrics.
	// Nil disables /metrics.
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Placeholder string
	MaxBody     int64
}

// Server is the HTTP boundary.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds a Server and its routes. Metrics collectors are registered
// with cfg.Registry when both are set.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.Registry != nil && cfg.Metrics != nil {
		if err := cfg.Metrics.Register(cfg.Registry); err != nil {
			return nil, err
		}
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.cfg.Metrics != nil {
		r.Use(s.cfg.Metrics.Middleware)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/fields", s.handleFields)
	r.Post("/documents/validate", s.handleValidate)
	r.Post("/badges/resolve", s.handleResolve)
	r.Post("/badges/render", s.handleRender)

	if s.cfg.Store != nil {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Get("/{id}", s.handleGetTemplate)
			r.Put("/{id}", s.handlePutTemplate)
			r.Delete("/{id}", s.handleDeleteTemplate)
		})
	}
	if s.cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.cfg.Logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
