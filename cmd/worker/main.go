package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/config"
	"github.com/leadscout/backend/internal/db"
	"github.com/leadscout/backend/internal/events"
	"github.com/leadscout/backend/internal/leadgen"
	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
	"github.com/leadscout/backend/internal/scheduler"
	"github.com/leadscout/backend/internal/services"
	"github.com/leadscout/backend/internal/store"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open state store", zap.Error(err))
	}
	defer st.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log); err != nil {
		log.Warn("redis unavailable, refresh events will not be published", zap.Error(err))
	} else {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, log)
	}

	repo := repositories.NewStateRepo(ctx, st, log)

	limits := models.Limits{
		MaxCampaigns:   cfg.MaxCampaigns,
		MaxRefreshes:   cfg.MaxRefreshes,
		MaxGenerations: cfg.MaxGenerations,
	}

	gemini := services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, func() string {
		if key := repo.Settings().GeminiAPIKey; key != "" {
			return key
		}
		return cfg.GeminiAPIKey
	}, log)
	ingestor := leadgen.NewIngestor(gemini, log)
	campaignService := services.NewCampaignService(repo, ingestor, publisher, limits, log)

	sched := scheduler.New(campaignService, log)
	if err := sched.Start(ctx, cfg.AutoRefreshSchedule); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	log.Info("worker started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down worker")
	cancel()
	sched.Stop()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(ctx, pool, log)
	case "redis":
		client, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, log), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewSQLiteStore(cfg.SQLitePath, log)
	}
}
