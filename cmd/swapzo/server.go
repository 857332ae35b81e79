package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jkaninda/swapzo/internal/config"
	"github.com/jkaninda/swapzo/internal/gateway"
	"github.com/jkaninda/swapzo/internal/gateway/httpapi"
	"github.com/jkaninda/swapzo/internal/ratelimit"
	"github.com/jkaninda/swapzo/internal/scheduler"
	goutils "github.com/jkaninda/go-utils"
)

var (
	serverConfigPath string
	serverAddr       string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketplace server (HTTP API, digest scheduler)",
	RunE:  runServer,
}

func init() {
	// Register flags on both root and server so that
	// `swapzo --config path` and `swapzo server --config path` both work.
	for _, cmd := range []*cobra.Command{rootCmd, serverCmd} {
		cmd.Flags().StringVar(&serverConfigPath, "config", config.DefaultConfigPath(), "path to config file")
		cmd.Flags().StringVar(&serverAddr, "addr", "", "override HTTP listen address (e.g. :8080)")
	}
}

// runServer starts Swapzo in server mode: the HTTP API gateway plus the
// optional background digest scheduler.
func runServer(_ *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := loadConfig(goutils.Env("SWAPZO_CONFIG", serverConfigPath))
	if err != nil {
		return err
	}

	// Apply CLI overrides.
	if serverAddr != "" {
		cfg.Gateway.HTTP.ListenAddr = serverAddr
	}

	logger.Info("starting in server mode", slog.String("config", serverConfigPath))

	sc, err := initShared(cfg, logger)
	if err != nil {
		return err
	}
	defer sc.Cleanup()

	// Signal-aware context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Digest scheduler (optional).
	if cfg.Scheduler != nil && cfg.Scheduler.Enabled {
		var schedMetrics *scheduler.Metrics
		if sc.Obs != nil && sc.Obs.Metrics != nil {
			schedMetrics = scheduler.NewMetrics(sc.Obs.Metrics.Registry)
		}

		digestScheduler := scheduler.New(sc.Service, sc.Store.Digests(), schedMetrics, logger, cfg.Scheduler)
		cancelScheduler := digestScheduler.Start(ctx)
		defer cancelScheduler()

		logger.Debug("digest scheduler initialized",
			slog.String("poll_interval", cfg.Scheduler.PollInterval().String()),
			slog.String("schedule", cfg.Scheduler.Schedule()),
		)
	}

	// HTTP API gateway.
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.Gateway.HTTP.RateLimit.RequestsPerMinute,
		BurstSize:         cfg.Gateway.HTTP.RateLimit.BurstSize,
	})

	httpCfg := httpapi.Config{
		ListenAddr:     cfg.Gateway.HTTP.Addr(),
		EnableDocs:     cfg.Gateway.HTTP.EnableDocs,
		APIKeys:        cfg.Gateway.HTTP.APIKeys,
		MaxRequestSize: cfg.Gateway.HTTP.MaxRequestSize(),
	}
	if sc.Obs != nil {
		httpCfg.Metrics = sc.Obs.Metrics
		httpCfg.HealthChecker = sc.Obs.Health
		if sc.Obs.Metrics != nil {
			httpCfg.MetricsRegistry = sc.Obs.Metrics.Registry
		}
		if sc.Obs.Tracer != nil {
			httpCfg.Tracer = sc.Obs.Tracer.Tracer()
		}
		if cfg.Observability != nil && cfg.Observability.Metrics != nil {
			httpCfg.MetricsPath = cfg.Observability.Metrics.Path
		}
	}

	httpGW := httpapi.NewGateway(httpCfg, sc.Service, limiter, logger).
		WithDigests(sc.Store.Digests())

	gateways := []gateway.Gateway{httpGW}
	logger.Info("gateways configured",
		slog.Int("count", len(gateways)),
		slog.String("addr", httpCfg.ListenAddr),
	)

	// Start all gateways in goroutines.
	errs := make(chan error, len(gateways))
	for _, gw := range gateways {
		go func(g gateway.Gateway) {
			errs <- g.Start(ctx)
		}(gw)
	}

	// Wait for signal or first gateway error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errs:
		if err != nil {
			logger.Error("gateway exited with error", slog.String("error", err.Error()))
		}
	}

	// Graceful shutdown with deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(gateways) - 1; i >= 0; i-- {
		if err := gateways[i].Stop(shutdownCtx); err != nil {
			logger.Error("stopping gateway", slog.String("error", err.Error()))
		}
	}

	return nil
}
