// Package api assembles the bioalign HTTP router.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aria-lang/bioalign-go/api/handlers"
	"github.com/aria-lang/bioalign-go/api/middleware"
)

// RouterConfig wires the router's collaborators.
type RouterConfig struct {
	Handler  *handlers.Handler
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewRouter returns the full API: /health, /metrics and everything under
// /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.Logger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Handler)
	}
	r.Use(chimiddleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", cfg.Handler.Routes)

	return r
}
