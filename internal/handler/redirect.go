package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
)

// RedirectHandler answers registered short-link paths with a permanent
// redirect to their destination.
type RedirectHandler struct {
	logger           *slog.Logger
	routes           map[string]registry.RedirectRoute
	metricsCollector *metrics.Collector
}

func NewRedirectHandler(logger *slog.Logger, routes []registry.RedirectRoute, collector *metrics.Collector) *RedirectHandler {
	byPath := make(map[string]registry.RedirectRoute, len(routes))
	for _, r := range routes {
		byPath[routeKey(r.Path)] = r
	}

	return &RedirectHandler{
		logger:           logger,
		routes:           byPath,
		metricsCollector: collector,
	}
}

func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	route, ok := h.routes[routeKey(r.URL.Path)]
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.logger.Info("Serving redirect",
		slog.String("from", remoteIP(r)),
		slog.String("forwarded_for", r.Header.Get("X-Forwarded-For")),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("destination", route.Destination),
		slog.String("user_agent", r.UserAgent()))

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:  metrics.EventRedirectServed,
		Route: route.Path,
	})

	http.Redirect(w, r, route.Destination, http.StatusMovedPermanently)
}

// routeKey makes the trailing slash optional.
func routeKey(path string) string {
	if path == "/" {
		return path
	}
	return strings.TrimSuffix(path, "/")
}

// extractClientIP prefers the first X-Forwarded-For entry. The header is
// client controlled, so callers decide whether to trust it.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
