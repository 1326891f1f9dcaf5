package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"news_reader/internal/api"
	"news_reader/internal/config"
	"news_reader/internal/publisher"
	"news_reader/internal/repository"
	"news_reader/internal/scheduler"
	"news_reader/internal/service"
	"news_reader/internal/source/newsapi"
	"news_reader/internal/storage"
	"news_reader/internal/storage/postgres"
	"news_reader/internal/storage/redis"
	"news_reader/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("news reader stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("news reader exited")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer cache.close()

	var events service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	source := newsapi.New(newsapi.Config{
		BaseURL:        cfg.API.BaseURL,
		APIKey:         cfg.API.APIKey,
		Country:        cfg.API.Country,
		PageSize:       cfg.API.PageSize,
		Timeout:        cfg.API.Timeout,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	repo := repository.NewNewsRepository(source, cache.store, cache.txManager, logger)

	controller := service.NewSyncController(repo, events, logger, cfg.Sync)
	defer controller.Close()

	handler := api.NewHandler(controller, repo, events, logger)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched := scheduler.NewScheduler(controller, cfg.Sync.RefreshInterval, logger)

	logger.Info("starting news reader",
		"source", source.Name(),
		"country", cfg.API.Country,
		"page_size", cfg.API.PageSize,
		"cache", cfg.Cache.Driver,
		"addr", cfg.HTTP.Addr,
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := sched.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type cacheBackend struct {
	store     repository.ArticleStore
	txManager repository.TransactionManager
	close     func()
}

func openCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (*cacheBackend, error) {
	switch cfg.Driver {
	case config.CacheDriverPostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		return &cacheBackend{
			store:     postgres.NewArticleStore(db),
			txManager: storage.NewTransactionManager(db),
			close:     func() { db.Close() },
		}, nil

	case config.CacheDriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return &cacheBackend{
			store:     redis.NewArticleStore(client, cfg.Redis.Prefix),
			txManager: redis.TransactionManager{},
			close:     func() { client.Close() },
		}, nil

	default:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		logger.Info("opened sqlite cache", "path", cfg.SQLite.Path)
		return &cacheBackend{
			store:     sqlite.NewArticleStore(db),
			txManager: storage.NewTransactionManager(db),
			close:     func() { db.Close() },
		}, nil
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
