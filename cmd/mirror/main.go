package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"agri_advisor/internal/config"
	"agri_advisor/internal/farmapi"
	"agri_advisor/internal/publisher"
	"agri_advisor/internal/scheduler"
	"agri_advisor/internal/service"
	"agri_advisor/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single mirror pass and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Database.DSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:      cfg.RabbitMQ.URL,
		Exchange: cfg.RabbitMQ.Exchange,
		Routes: publisher.Routes{
			Content: publisher.Route{
				RoutingKey: cfg.RabbitMQ.ContentRoutingKey,
				QueueName:  cfg.RabbitMQ.ContentQueue,
			},
			Recommendations: publisher.Route{
				RoutingKey: cfg.RabbitMQ.RecommendationRoutingKey,
				QueueName:  cfg.RabbitMQ.RecommendationQueue,
			},
		},
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	client := farmapi.New(farmapi.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		UserAgent:      cfg.API.UserAgent,
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	mirror, err := service.NewMirrorService(
		client,
		postgres.NewContentStore(db),
		postgres.NewTagStore(db),
		postgres.NewMirrorStateStore(db),
		postgres.NewTransactionManager(db),
		rabbitMQ,
		logger,
		cfg.Mirror,
	)
	if err != nil {
		logger.Error("failed to create mirror service", "error", err)
		os.Exit(1)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if *once {
		runCtx, runCancel := context.WithTimeout(ctx, cfg.Mirror.RunTimeout)
		defer runCancel()
		if _, err := mirror.Sync(runCtx); err != nil {
			logger.Error("mirror failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(mirror, cfg.Mirror.Interval, cfg.Mirror.RunTimeout, logger)

	logger.Info("starting content mirror",
		"api", cfg.API.BaseURL,
		"interval", cfg.Mirror.Interval,
		"kinds", cfg.Mirror.Kinds,
		"limit", cfg.Mirror.Limit,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
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
