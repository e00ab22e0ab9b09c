package main

import (
	"net/http"

	"github.com/angeloszaimis/redirect-monitor/internal/handler"
	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
)

func setupRouter(redirectHandler *handler.RedirectHandler, apiHandler *handler.APIHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/redirects/validate", apiHandler.Validate)
	mux.HandleFunc("GET /api/redirects/status", apiHandler.Status)
	mux.HandleFunc("GET /api/redirects/status/route", apiHandler.RouteStatus)
	mux.HandleFunc("GET /api/redirects/history", apiHandler.History)
	mux.HandleFunc("GET /api/admin/redirects/dashboard", apiHandler.Dashboard)
	mux.HandleFunc("GET /healthz", apiHandler.Healthz)
	mux.HandleFunc("GET /metrics", metricsCollector.Handler())

	mux.Handle("/", redirectHandler)

	return mux
}
