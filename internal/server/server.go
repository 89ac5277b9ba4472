// Package server exposes the progress service over HTTP: the endpoint
// practice clients post progress events to, read-only views of stored
// progress and the skill catalog, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/store"
)

// Options configures a Server.
type Options struct {
	Progress store.ProgressRepo
	Events   store.EventRepo
	Catalog  *catalog.Catalog
	Logger   *zap.Logger

	// AllowedOrigins lists the browser origins allowed by CORS. Empty
	// allows any origin.
	AllowedOrigins []string

	// Registry collects the server metrics. Nil creates a private registry.
	Registry *prometheus.Registry
}

// Server is the progress HTTP service.
type Server struct {
	progress store.ProgressRepo
	events   store.EventRepo
	catalog  *catalog.Catalog
	log      *zap.Logger
	metrics  *metrics
	router   chi.Router
}

// New builds the server and its routes.
func New(opts Options) *Server {
	s := &Server{
		progress: opts.Progress,
		events:   opts.Events,
		catalog:  opts.Catalog,
		log:      opts.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(reg)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/progress", s.recordProgress)
		r.Get("/progress", s.listProgress)
		r.Get("/progress/{grade}/{skillID}/history", s.skillHistory)
		r.Get("/sessions", s.recentSessions)
		r.Get("/catalog", s.listCatalog)
		r.Get("/catalog/{grade}", s.gradeCatalog)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("progress service listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down progress service")
		return srv.Shutdown(shutdownCtx)
	}
}

// unmatchedRoute labels requests no route matched, so arbitrary paths do not
// grow the metric label set.
const unmatchedRoute = "unmatched"

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.observe(r.Method, route, status, elapsed)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
