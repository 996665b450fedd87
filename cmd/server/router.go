package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/popeskul/pharmacy-messenger/internal/api"
)

func setupRouter(handler api.ServerInterface, ws http.HandlerFunc, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Serve OpenAPI spec
	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, "api/openapi.yaml")
	})

	r.Get("/ws", ws)
	r.Handle("/metrics/prometheus", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Mount API routes
	r.Mount("/", api.Handler(handler))

	return r
}
