package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Komal-kalyanraman/container-monitor/internal/config"
	"github.com/Komal-kalyanraman/container-monitor/internal/dashboard"
	"github.com/Komal-kalyanraman/container-monitor/internal/logging"
	"github.com/Komal-kalyanraman/container-monitor/internal/mq"
	"github.com/Komal-kalyanraman/container-monitor/internal/utils"
)

func main() {
	logger := logging.New()

	cfg, err := config.Load(utils.ConfigFilePath)
	if err != nil {
		logger.Error("failed to load configuration file", "path", utils.ConfigFilePath, "err", err)
		os.Exit(1)
	}

	stop := make(chan struct{})
	var stopOnce sync.Once
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		stopOnce.Do(func() { close(stop) })
	}()

	logger.Info("waiting for summary queue", "queue", mq.QueueName)
	consumer, err := mq.OpenConsumerRetry(50, time.Second, stop)
	if err != nil {
		logger.Error("summary queue not available", "err", err)
		os.Exit(1)
	}
	defer consumer.Close()

	aggregator := dashboard.NewAggregator(logger)
	go aggregator.Run(consumer, stop)

	renderer := dashboard.NewRenderer(os.Stdout, cfg.AlertWarning, cfg.AlertCritical)
	go func() {
		if err := dashboard.WatchThresholds(utils.ConfigFilePath, renderer, logger, stop); err != nil {
			logger.Warn("config watch unavailable", "err", err)
		}
	}()

	refresh := time.Duration(cfg.UiRefreshIntervalMs) * time.Millisecond
	renderer.RunLoop(aggregator, refresh, stop)
	logger.Info("dashboard stopped")
}
