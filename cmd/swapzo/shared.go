package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jkaninda/swapzo/internal/config"
	"github.com/jkaninda/swapzo/internal/listing"
	"github.com/jkaninda/swapzo/internal/matching"
	"github.com/jkaninda/swapzo/internal/observability"
	"github.com/jkaninda/swapzo/internal/storage"
	pgstore "github.com/jkaninda/swapzo/internal/storage/postgres"
	sqlitestore "github.com/jkaninda/swapzo/internal/storage/sqlite"
)

// SharedComponents holds all initialized subsystems that the server, MCP,
// and one-shot match modes require. Built once by initShared, torn down by
// Cleanup.
type SharedComponents struct {
	Config *config.Config
	Logger *slog.Logger
	Store  storage.Store // Unified store (SQLite or PostgreSQL).

	Obs      *observability.Observability
	Strategy matching.Strategy
	Service  *listing.Service

	cleanups []func()
}

// Cleanup runs all deferred cleanup functions in reverse order.
func (sc *SharedComponents) Cleanup() {
	for i := len(sc.cleanups) - 1; i >= 0; i-- {
		sc.cleanups[i]()
	}
}

func (sc *SharedComponents) addCleanup(fn func()) {
	sc.cleanups = append(sc.cleanups, fn)
}

// loadConfig loads the config file, falling back to built-in defaults when
// the default config path does not exist. An explicitly passed path that is
// missing is still an error.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == config.DefaultConfigPath() {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// initShared performs all common initialization shared between server, MCP,
// and one-shot match modes. Callers must call sc.Cleanup() when done.
func initShared(cfg *config.Config, logger *slog.Logger) (*SharedComponents, error) {
	sc := &SharedComponents{
		Config: cfg,
		Logger: logger,
	}

	// Ensure data directory exists.
	dataDir := cfg.ResolvedDataDir()
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}
	logger.Debug("data directory initialized", slog.String("path", dataDir))

	// Observability.
	obs, err := observability.New(cfg.Observability, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing observability: %w", err)
	}
	sc.Obs = obs
	sc.addCleanup(func() {
		if obs != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			obs.Shutdown(shutdownCtx)
		}
	})
	if obs != nil {
		logger.Debug("observability initialized",
			slog.Bool("metrics", obs.Metrics != nil),
			slog.Bool("tracing", obs.Tracer != nil),
			slog.Bool("anomaly", obs.Anomaly != nil),
		)
	}

	// Storage (unified: SQLite default, PostgreSQL optional).
	store, err := initStore(cfg, logger)
	if err != nil {
		sc.Cleanup()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	sc.Store = store
	sc.addCleanup(func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store", slog.String("error", err.Error()))
		}
	})

	// Run migrations.
	if err := store.Migrate(context.Background()); err != nil {
		sc.Cleanup()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Debug("storage initialized", slog.String("driver", store.Driver()))

	// Database health check for the readiness probe.
	if obs != nil && obs.Health != nil {
		includeDB := cfg.Observability == nil || cfg.Observability.Health == nil || cfg.Observability.Health.IncludeDB
		if includeDB {
			obs.Health.AddCheck("database", store.Ping)
		}
	}

	// Matching engine.
	var opts matching.Options
	if cfg.Matching != nil {
		opts = matching.Options{
			Threshold:     cfg.Matching.Threshold,
			MinConfidence: cfg.Matching.MinConfidence,
			MaxResults:    cfg.Matching.MaxResults,
		}
	}
	var engineMetrics *matching.Metrics
	if obs != nil && obs.Metrics != nil {
		engineMetrics = matching.NewMetrics(obs.Metrics.Registry)
	}
	var strategy matching.Strategy = matching.NewEngine(opts, logger, engineMetrics)
	if obs != nil && obs.Metrics != nil {
		strategy = observability.NewInstrumentedStrategy(strategy, obs.Metrics, obs.TracerOrNil(), obs.Anomaly)
	}
	sc.Strategy = strategy
	logger.Debug("matching engine initialized", slog.String("strategy", strategy.Name()))

	// Listing service.
	sc.Service = listing.NewService(store.Profiles(), store.Offers(), store.Needs(), strategy, logger)

	return sc, nil
}

// initStore creates the appropriate storage backend from config.
func initStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	driver := cfg.StorageDriverName()

	switch driver {
	case "postgres":
		return initPostgresStore(cfg, logger)
	case "sqlite":
		return initSQLiteStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", driver)
	}
}

func initSQLiteStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	dbPath := cfg.DatabasePath()
	journalMode := "wal"

	if cfg.Storage != nil && cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path != "" {
			dbPath = cfg.Storage.SQLite.Path
		}
		if cfg.Storage.SQLite.JournalMode != "" {
			journalMode = cfg.Storage.SQLite.JournalMode
		}
	}

	return sqlitestore.Open(sqlitestore.Config{
		Path:        dbPath,
		JournalMode: journalMode,
	}, logger)
}

func initPostgresStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	pg := cfg.Storage.Postgres

	pgCfg := pgstore.Config{
		DSN:             pg.DSN,
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: pg.ConnMaxLifetime(),
	}

	store, err := pgstore.Open(pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return store, nil
}
