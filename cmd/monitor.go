package main

import (
	"log/slog"

	"github.com/angeloszaimis/redirect-monitor/config"
	"github.com/angeloszaimis/redirect-monitor/internal/alert"
	"github.com/angeloszaimis/redirect-monitor/internal/cache"
	"github.com/angeloszaimis/redirect-monitor/internal/circuitbreaker"
	"github.com/angeloszaimis/redirect-monitor/internal/healthcheck"
	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
	"github.com/angeloszaimis/redirect-monitor/internal/probe"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
)

func newMonitor(cfg *config.Config, log *slog.Logger, routes []registry.RedirectRoute, collector *metrics.Collector, breakers *circuitbreaker.Registry) *healthcheck.Scheduler {
	prober := probe.NewHTTPProber(cfg.Monitor.ProbeTimeout())
	store := cache.New(cfg.Monitor.HistorySize)

	return healthcheck.New(routes, prober, store, log,
		healthcheck.WithMetrics(collector),
		healthcheck.WithNotifier(newNotifier(cfg.Alerting, log, breakers)),
		healthcheck.WithParallelism(cfg.Monitor.Concurrency()),
	)
}

func newBreakers(cfg config.AlertingConfig) *circuitbreaker.Registry {
	return circuitbreaker.NewRegistry(cfg.FailureThreshold, cfg.BreakerResetTimeout())
}

// newNotifier always logs transitions and additionally posts them to the
// webhook when one is configured.
func newNotifier(cfg config.AlertingConfig, log *slog.Logger, breakers *circuitbreaker.Registry) alert.Notifier {
	notifiers := alert.Multi{
		alert.NewLogNotifier(log.With(slog.String("component", "alert"))),
	}

	if cfg.Enabled() {
		notifiers = append(notifiers, alert.NewWebhookNotifier(cfg.WebhookURL, cfg.DeliveryTimeout(), breakers))
	}

	return notifiers
}
