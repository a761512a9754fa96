package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"agri_advisor/internal/config"
	"agri_advisor/internal/farmapi"
	"agri_advisor/internal/publisher"
	"agri_advisor/internal/service"
	"agri_advisor/internal/session"
	"agri_advisor/internal/storage/postgres"
	"agri_advisor/internal/views"
)

// app holds what every command shares. Databases and brokers are opened on
// first use only.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *farmapi.Client
	session *session.Store

	// offline serves content from the mirror database instead of the API.
	offline bool
	db      *sqlx.DB

	closers []func() error
}

type appKey struct{}

func fromCommand(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

func newApp(ctx context.Context, configPath string, explicit, debug, offline bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger := setupLogger(level)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		offline: offline,
		client: farmapi.New(farmapi.Config{
			BaseURL:        cfg.API.BaseURL,
			Timeout:        cfg.API.Timeout,
			UserAgent:      cfg.API.UserAgent,
			MaxAttempts:    cfg.API.Retry.MaxAttempts,
			InitialBackoff: cfg.API.Retry.InitialBackoff,
			MaxBackoff:     cfg.API.Retry.MaxBackoff,
		}, logger),
	}

	tokens, err := a.tokenStore()
	if err != nil {
		return nil, err
	}

	a.session = session.NewStore(tokens, a.client, cfg.Session.IdentityTimeout, logger)
	if err := a.session.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("init session: %w", err)
	}
	return a, nil
}

func (a *app) tokenStore() (session.TokenStore, error) {
	switch a.cfg.Session.TokenStore {
	case config.TokenStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		return session.NewRedisTokenStore(client, a.cfg.Redis.Key), nil
	case config.TokenStoreFile:
		return session.NewFileTokenStore(a.cfg.Session.TokenFile), nil
	}
	return nil, fmt.Errorf("unknown token store %q", a.cfg.Session.TokenStore)
}

func (a *app) database(ctx context.Context) (*sqlx.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := postgres.Connect(ctx, a.cfg.Database.DSN(), a.cfg.Database.MaxOpenConns, a.cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	a.db = db
	return db, nil
}

// contentSource is the farm API, or the mirrored copy in PostgreSQL when
// running offline.
func (a *app) contentSource(ctx context.Context) (views.ContentSource, error) {
	if !a.offline {
		return a.client, nil
	}
	db, err := a.database(ctx)
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	a.logger.Debug("reading content from mirror")
	return postgres.NewContentStore(db), nil
}

// history opens PostgreSQL and, when reachable, RabbitMQ. Announcing saved
// recommendations is optional.
func (a *app) history(ctx context.Context) (*service.HistoryService, error) {
	db, err := a.database(ctx)
	if err != nil {
		return nil, err
	}

	var pub service.RecommendationPublisher
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:      a.cfg.RabbitMQ.URL,
		Exchange: a.cfg.RabbitMQ.Exchange,
		Routes: publisher.Routes{
			Content: publisher.Route{
				RoutingKey: a.cfg.RabbitMQ.ContentRoutingKey,
				QueueName:  a.cfg.RabbitMQ.ContentQueue,
			},
			Recommendations: publisher.Route{
				RoutingKey: a.cfg.RabbitMQ.RecommendationRoutingKey,
				QueueName:  a.cfg.RabbitMQ.RecommendationQueue,
			},
		},
	}, a.logger)
	if err != nil {
		a.logger.Warn("recommendation events disabled", "error", err)
	} else {
		a.closers = append(a.closers, rabbitMQ.Close)
		pub = rabbitMQ
	}

	return service.NewHistoryService(postgres.NewRecommendationStore(db), pub, a.logger), nil
}

// Close waits for pending identity lookups, then releases connections in
// reverse order of opening.
func (a *app) Close() {
	if a.session != nil {
		a.session.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug("close failed", "error", err)
		}
	}
	a.closers = nil
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
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
