package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/redirect-monitor/config"
	"github.com/angeloszaimis/redirect-monitor/internal/handler"
	"github.com/angeloszaimis/redirect-monitor/internal/httpserver"
	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
	"github.com/angeloszaimis/redirect-monitor/pkg/logger"
)

const metricsBufferSize = 1000

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve redirects and the monitoring API",
		Long:  `Start the HTTP server and validate every redirect destination on the configured interval.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	routes := registry.Default()
	if err := registry.Validate(routes); err != nil {
		return fmt.Errorf("redirect registry: %w", err)
	}

	breakers := newBreakers(cfg.Alerting)

	collector := metrics.NewCollector(metricsBufferSize, log.With(slog.String("component", "metrics")))
	collector.WatchBreakers(breakers)
	collector.Start(ctx)

	monitor := newMonitor(cfg, log, routes, collector, breakers)

	var apiOpts []handler.APIOption
	if cfg.API.TrustForwardedFor {
		apiOpts = append(apiOpts, handler.WithForwardedFor())
	}
	apiHandler := handler.NewAPIHandler(log, monitor, cfg.API.ValidateRPS, cfg.API.ValidateBurst, apiOpts...)
	redirectHandler := handler.NewRedirectHandler(log, routes, collector)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(redirectHandler, apiHandler, collector), log)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if err := monitor.Start(ctx, cfg.Monitor.Interval()); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	defer monitor.Stop()

	log.Info("Redirect monitor started",
		slog.Int("routes", len(routes)),
		slog.Duration("interval", cfg.Monitor.Interval()),
		slog.Duration("timeout", cfg.Monitor.ProbeTimeout()),
		slog.Bool("alerting", cfg.Alerting.Enabled()))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
		return nil
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting redirect monitor", slog.Any("err", err))
		}
		return err
	}
}
