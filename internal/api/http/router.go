package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewStatusRouter wires the monitor's read-only status surface.
func NewStatusRouter(
	handler *RequestHandler,
	status StatusSource,
	refreshInterval time.Duration,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))

	r.Get("/healthz", handler.Health)
	r.Get("/v1/containers", handler.ListContainers)
	r.Get("/v1/assignments", handler.Assignments)
	r.Method("GET", "/v1/live", &LiveStream{Status: status, Interval: refreshInterval})
	r.Method("GET", "/metrics", promhttp.Handler())

	return r
}
