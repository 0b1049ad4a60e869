package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
	"github.com/Komal-kalyanraman/container-monitor/internal/config"
	"github.com/Komal-kalyanraman/container-monitor/internal/lifecycle"
	"github.com/Komal-kalyanraman/container-monitor/internal/logging"
	"github.com/Komal-kalyanraman/container-monitor/internal/mq"
	"github.com/Komal-kalyanraman/container-monitor/internal/pool"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
	"github.com/Komal-kalyanraman/container-monitor/internal/utils"

	apihttp "github.com/Komal-kalyanraman/container-monitor/internal/api/http"
)

const statusAddr = "127.0.0.1:7070"

const eventQueueSize = 1024

func main() {
	logger := logging.New()

	cfg, err := config.Load(utils.ConfigFilePath)
	if err != nil {
		logger.Error("failed to load configuration file", "path", utils.ConfigFilePath, "err", err)
		os.Exit(1)
	}
	runId := utils.NewRunId()
	logger.Info("container monitor starting", "run_id", runId)
	config.LogEffective(logger, cfg)

	pathFactory, err := cgroup.NewPathFactory(cfg.Runtime, cfg.Cgroup)
	if err != nil {
		logger.Error("invalid runtime configuration", "err", err)
		os.Exit(1)
	}

	// == store ==
	var store metrics.StoreHandler
	switch cfg.Database {
	case "embedded":
		store = metrics.NewEmbeddedStore()
	case "sqlite":
		store = metrics.NewSqliteStore(cfg.DbPath, logger)
	default:
		logger.Warn("unknown database backend, using sqlite", "database", cfg.Database)
		store = metrics.NewSqliteStore(cfg.DbPath, logger)
	}
	if err := store.SetupSchema(); err != nil {
		logger.Error("schema setup failed", "err", err)
	}
	// The live-set is rebuilt from the event stream (--since 0m), so
	// limits rows from a previous run must not admit dead containers.
	if err := store.ClearAll(); err != nil {
		logger.Error("clearing stale limits failed", "err", err)
	}

	// Remove any stale summary queue before the first producer open, so
	// a leftover queue with a different record size cannot survive.
	if err := mq.Unlink(); err != nil {
		logger.Warn("unlink stale summary queue failed", "err", err)
	}

	// == worker pool ==
	resourcePool := pool.NewResourcePool(
		pool.PoolConfig{
			WorkerCount:      cfg.ThreadCount,
			WorkerCapacity:   cfg.ThreadCapacity,
			BatchSize:        cfg.BatchSize,
			SampleIntervalMs: cfg.ResourceSamplingIntervalMs,
			UiEnabled:        cfg.UiEnabled,
		},
		store,
		store,
		pathFactory,
		func() (pool.SummaryProducer, error) {
			producer, err := mq.OpenProducer()
			if err != nil {
				return nil, err
			}
			return producer, nil
		},
		logger,
	)
	resourcePool.Start()

	// == lifecycle ==
	refresh := time.Duration(cfg.ContainerEventRefreshIntervalMs) * time.Millisecond
	commandFactory := utils.NewCommandFactory()
	queue := make(chan string, eventQueueSize)

	feed, err := lifecycle.NewEventFeed(cfg.Runtime, refresh, queue, commandFactory, logger)
	if err != nil {
		logger.Error("invalid runtime configuration", "err", err)
		os.Exit(1)
	}
	feed.Start()

	coordinator := lifecycle.NewCoordinator(
		cfg.Runtime, refresh, store, resourcePool, queue, commandFactory, logger)
	coordinator.Start()

	// == status api ==
	handler := apihttp.NewRequestHandler(runId, store, resourcePool)
	router := apihttp.NewStatusRouter(handler, resourcePool,
		time.Duration(cfg.UiRefreshIntervalMs)*time.Millisecond, logger)
	srv := &http.Server{Addr: statusAddr, Handler: router}
	go func() {
		logger.Info("status api listening", "addr", statusAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status api stopped", "err", err)
		}
	}()

	// == shutdown ==
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	logger.Info("shutdown signal received", "signal", sig.String())

	feed.Stop()
	coordinator.Stop()
	resourcePool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if err := store.ExportToDir(cfg.FileExportFolderPath); err != nil {
		logger.Error("csv export failed", "dir", cfg.FileExportFolderPath, "err", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("store close failed", "err", err)
	}
	logger.Info("container monitor stopped", "run_id", runId)
}
