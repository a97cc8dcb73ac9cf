package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wordseer/frequentwords/internal/events"
	"github.com/wordseer/frequentwords/internal/panel"
	"github.com/wordseer/frequentwords/internal/refresh"
	"github.com/wordseer/frequentwords/internal/usage"
	"github.com/wordseer/frequentwords/internal/wordlist"
	listcache "github.com/wordseer/frequentwords/internal/wordlist/cache"
	"github.com/wordseer/frequentwords/pkg/config"
	"github.com/wordseer/frequentwords/pkg/health"
	"github.com/wordseer/frequentwords/pkg/kafka"
	"github.com/wordseer/frequentwords/pkg/logger"
	"github.com/wordseer/frequentwords/pkg/metrics"
	"github.com/wordseer/frequentwords/pkg/middleware"
	"github.com/wordseer/frequentwords/pkg/postgres"
	pkgredis "github.com/wordseer/frequentwords/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting frequent-words service", "port", cfg.Server.Port)

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("postgres connected", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)

	var cache *listcache.ListCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, list caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cache = listcache.New(redisClient, cfg.Redis)
		slog.Info("list cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	usageProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.UsageEvents)
	defer usageProducer.Close()
	collector := usage.NewCollector(usageProducer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("usage collector started", "topic", cfg.Kafka.Topics.UsageEvents)

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	bus := events.NewBus()
	source := wordlist.NewPostgresSource(db, cfg.Lists.PhraseLength)
	p := panel.New(source, bus)
	p.Build()

	// Refresh completions invalidate the cached lists for the project.
	if cache != nil {
		refreshConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.RefreshComplete,
			func(ctx context.Context, key, value []byte) error {
				event, err := kafka.DecodeJSON[refresh.CompletedEvent](value)
				if err != nil {
					slog.Error("failed to decode refresh event", "error", err)
					return nil
				}
				return cache.Invalidate(ctx, strconv.FormatInt(event.ProjectID, 10))
			})
		go func() {
			if err := refreshConsumer.Start(ctx); err != nil {
				slog.Error("refresh consumer error", "error", err)
			}
		}()
		slog.Info("refresh consumer started", "topic", cfg.Kafka.Topics.RefreshComplete)
	}

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := panel.NewHandler(p, source, cache, bus, collector, m,
		cfg.Lists.DefaultLimit, cfg.Lists.MaxLimit)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("frequent-words service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("frequent-words service stopped")
}
