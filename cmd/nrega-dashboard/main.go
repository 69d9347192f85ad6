package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/nrega-dashboard/internal/core/config"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage/file"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage/postgres"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage/redisstore"
	"github.com/aevon-lab/nrega-dashboard/internal/ingestion"
	"github.com/aevon-lab/nrega-dashboard/internal/migrations"
	"github.com/aevon-lab/nrega-dashboard/internal/projection"
	"github.com/aevon-lab/nrega-dashboard/internal/server"
	"github.com/aevon-lab/nrega-dashboard/internal/syncer"
	"github.com/aevon-lab/nrega-dashboard/internal/upstream"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", corecfg.DefaultPath, "Path to configuration file")
	flag.Parse()

	// 0. Load configuration before the logger so the level can be applied.
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 1. Initialize Logger
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("Loaded config",
		"source", corecfg.Source(*configPath),
		"addr", cfg.Server.Addr(),
		"store_backend", cfg.Store.Backend,
		"default_region", cfg.Sync.DefaultRegion,
		"sync_interval", cfg.Sync.IntervalDuration(),
		"merge_policy", cfg.Sync.MergePolicy,
		"targets", len(cfg.Targets))
	if cfg.Upstream.APIKey == "" {
		slog.Warn("upstream.api_key is empty; upstream requests will likely be rejected")
	}

	// 2. Initialize Storage
	backend, closeBackend, err := openBackend(cfg.Store)
	if err != nil {
		slog.Error("Failed to initialize store backend", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	policy, _ := storage.ParseMergePolicy(cfg.Sync.MergePolicy) // validated by Load
	store := storage.NewRecordStore(backend, storage.WithMergePolicy(policy))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Open(ctx); err != nil {
		slog.Error("Failed to load cached records", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Upstream fetcher and Syncer
	client := upstream.NewClient(upstream.Config{
		BaseURL:          cfg.Upstream.BaseURL,
		ResourceID:       cfg.Upstream.ResourceID,
		APIKey:           cfg.Upstream.APIKey,
		Format:           cfg.Upstream.Format,
		PageLimit:        cfg.Upstream.PageLimit,
		Timeout:          cfg.Upstream.TimeoutDuration(),
		BackoffStep:      cfg.Upstream.BackoffStepDuration(),
		MaxResponseBytes: cfg.Upstream.MaxResponseBytes(),
	}, nil)

	syncSvc := syncer.NewService(client, store, syncer.Options{
		MaxAttempts:      cfg.Upstream.MaxAttempts,
		FallbackAttempts: cfg.Upstream.FallbackAttempts,
	})
	scheduler := syncer.NewScheduler(cfg.Sync.IntervalDuration(), syncSvc, store, cfg.Targets, cfg.Sync.ColdStart)

	// 4. Initialize HTTP services
	ingestionSvc := ingestion.NewService(syncSvc, cfg.Server.MaxBodySizeKB)
	projectionSvc := projection.NewService(store, syncSvc)

	srv := server.New(cfg.Server.Addr(), store, cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 5. Start Services
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Sync.Enabled {
		g.Go(func() error { return scheduler.Start(gctx) })
	} else {
		slog.Info("Sync scheduler disabled by config")
	}
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		slog.Error("Stopped with error", "error", err)
		closeBackend()
		os.Exit(1)
	}

	slog.Info("Shutdown complete")
}

// openBackend builds the configured snapshot backend and its release func.
func openBackend(cfg corecfg.StoreConfig) (storage.SnapshotStore, func(), error) {
	switch cfg.Backend {
	case corecfg.BackendFile:
		return file.NewSnapshotStore(cfg.Path), func() {}, nil

	case corecfg.BackendPostgres:
		db, err := postgres.Connect(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() { adapter.Close() }, nil

	case corecfg.BackendRedis:
		client, err := redisstore.Connect(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rs := redisstore.New(client, redisstore.WithKey(cfg.RedisKey))
		return rs, func() { rs.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
}
