package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/config"
	"github.com/leadscout/backend/internal/db"
	"github.com/leadscout/backend/internal/events"
	apphttp "github.com/leadscout/backend/internal/http"
	"github.com/leadscout/backend/internal/http/handlers"
	"github.com/leadscout/backend/internal/leadgen"
	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
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

	// Blob store
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open state store", zap.Error(err))
	}
	defer st.Close()

	// Redis (events + rate limiting). Optional: without it the API still
	// works, just without live updates.
	var rdb *redis.Client
	var publisher events.Publisher = events.NopPublisher{}
	var subscriber events.Subscriber = events.NopSubscriber{}
	if client, err := db.NewRedisClient(ctx, cfg.RedisURL, log); err != nil {
		log.Warn("redis unavailable, live events disabled", zap.Error(err))
	} else {
		rdb = client
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	}

	// Repositories
	repo := repositories.NewStateRepo(ctx, st, log)

	limits := models.Limits{
		MaxCampaigns:   cfg.MaxCampaigns,
		MaxRefreshes:   cfg.MaxRefreshes,
		MaxGenerations: cfg.MaxGenerations,
	}

	// Services
	gemini := services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, func() string {
		if key := repo.Settings().GeminiAPIKey; key != "" {
			return key
		}
		return cfg.GeminiAPIKey
	}, log)
	ingestor := leadgen.NewIngestor(gemini, log)
	summary := services.NewSummaryClient(gemini, log)

	campaignService := services.NewCampaignService(repo, ingestor, publisher, limits, log)
	postService := services.NewPostService(repo, gemini, summary, limits, log)
	exportService := services.NewExportService(repo, log)
	settingsService := services.NewSettingsService(repo, limits, log)

	// Handlers
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	postHandler := handlers.NewPostHandler(postService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)
	settingsHandler := handlers.NewSettingsHandler(settingsService, log)
	wsHub := handlers.NewWSHub(subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout: config.RequestTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, log, rdb, campaignHandler, postHandler, exportHandler, settingsHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
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
