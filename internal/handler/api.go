package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/redirect-monitor/internal/cache"
	"github.com/angeloszaimis/redirect-monitor/internal/healthcheck"
)

// Monitor is the query surface the API exposes.
type Monitor interface {
	ValidateAll(ctx context.Context) (healthcheck.ValidateResponse, error)
	Status() healthcheck.StatusResponse
	RouteStatus(path string) (cache.ValidationResult, bool)
	History(path string) []cache.ValidationResult
	Dashboard() healthcheck.DashboardResponse
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIHandler serves redirect validation results as JSON.
type APIHandler struct {
	logger            *slog.Logger
	monitor           Monitor
	limiter           *clientLimiter
	trustForwardedFor bool
}

// APIOption customises an APIHandler.
type APIOption func(*APIHandler)

// WithForwardedFor identifies clients by the first X-Forwarded-For entry.
// Only enable it behind a proxy that overwrites the header.
func WithForwardedFor() APIOption {
	return func(h *APIHandler) {
		h.trustForwardedFor = true
	}
}

// NewAPIHandler creates the API. On-demand validation is limited to rps
// requests per second per client with the given burst. Clients are keyed by
// the connection's remote address unless WithForwardedFor is given.
func NewAPIHandler(logger *slog.Logger, monitor Monitor, rps float64, burst int, opts ...APIOption) *APIHandler {
	h := &APIHandler{
		logger:  logger,
		monitor: monitor,
		limiter: newClientLimiter(rps, burst),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *APIHandler) clientKey(r *http.Request) string {
	if h.trustForwardedFor {
		return extractClientIP(r)
	}
	return remoteIP(r)
}

func (h *APIHandler) Validate(w http.ResponseWriter, r *http.Request) {
	client := h.clientKey(r)
	if !h.limiter.Allow(client) {
		h.logger.Warn("Validation request rate limited", slog.String("client", client))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many validation requests"})
		return
	}

	resp, err := h.monitor.ValidateAll(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.logger.Error("Validation request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "validation did not complete"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Status())
}

func (h *APIHandler) RouteStatus(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "path query parameter is required"})
		return
	}

	res, ok := h.monitor.RouteStatus(path)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not validated"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *APIHandler) History(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "path query parameter is required"})
		return
	}

	writeJSON(w, http.StatusOK, h.monitor.History(path))
}

func (h *APIHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Dashboard())
}

func (h *APIHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
