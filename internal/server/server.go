// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST /api/visualize   Turtle in, payload (or SVG/PNG/PDF/DOT/Turtle) out
//	GET  /health          liveness and build info
//	GET  /metrics         Prometheus metrics, when a metrics handler is set
//
// Identical concurrent visualize requests share one pipeline run.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/singleflight"

	"github.com/turtlyscope/turtlyscope/pkg/config"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server handles HTTP requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	settings config.Settings
	logger   *log.Logger
	metrics  http.Handler
	flight   singleflight.Group
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, settings config.Settings, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{runner: runner, settings: settings, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	if hosts := s.settings.Server.AllowedHosts; len(hosts) > 0 {
		r.Use(trustedHosts(hosts))
	}
	r.Use(observe)
	r.Use(securityHeaders)
	r.Use(chimiddleware.Compress(5, compressedTypes...))
	if origins := s.settings.Server.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{headerRequestID, headerCache, headerPartial},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Post("/visualize", s.visualize)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
