package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wordseer/frequentwords/internal/refresh"
	"github.com/wordseer/frequentwords/pkg/config"
	"github.com/wordseer/frequentwords/pkg/kafka"
	"github.com/wordseer/frequentwords/pkg/logger"
	"github.com/wordseer/frequentwords/pkg/metrics"
	"github.com/wordseer/frequentwords/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single refresh pass and exit")
	project := flag.Int64("project", 0, "refresh only this project id (with -once)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting refresher", "schedule", cfg.Refresh.Schedule, "top_n", cfg.Refresh.TopN)

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.RefreshComplete)
	defer producer.Close()

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresher := refresh.New(db, producer, m, cfg.Refresh)

	if *once {
		var runErr error
		if *project > 0 {
			runErr = refresher.RunOnce(ctx, *project)
		} else {
			runErr = refresher.RunAll(ctx)
		}
		if runErr != nil {
			slog.Error("refresh failed", "error", runErr)
			os.Exit(1)
		}
		slog.Info("refresh complete")
		return
	}

	scheduler, err := refresher.Schedule(ctx, cfg.Refresh.Schedule)
	if err != nil {
		slog.Error("failed to schedule refresh", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")
	<-scheduler.Stop().Done()
	if metricsShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "error", err)
		}
	}
	slog.Info("refresher stopped")
}
