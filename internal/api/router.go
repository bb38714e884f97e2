package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the service router with all API, health, and metrics
// routes mounted.
func NewRouter(handler *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report/{station}", handler.GetReport)
		r.Get("/report/{station}/history", handler.GetReportHistory)
		r.Post("/decode", handler.DecodeReport)
		r.Post("/recon", handler.DecodeRecon)
	})

	r.Get("/healthz", handler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
