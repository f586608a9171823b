package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/http/handlers"
	"github.com/leadscout/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	log *zap.Logger,
	rdb *redis.Client,
	campaignHandler *handlers.CampaignHandler,
	postHandler *handlers.PostHandler,
	exportHandler *handlers.ExportHandler,
	settingsHandler *handlers.SettingsHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Campaigns
	api.Post("/campaigns", campaignHandler.Create)
	api.Get("/campaigns", campaignHandler.List)
	api.Get("/campaigns/:id", campaignHandler.Get)
	api.Delete("/campaigns/:id", campaignHandler.Delete)
	api.Post("/campaigns/:id/refresh", campaignHandler.Refresh)
	api.Post("/campaigns/:id/pause", campaignHandler.Pause)
	api.Post("/campaigns/:id/resume", campaignHandler.Resume)
	api.Get("/campaigns/:id/status", campaignHandler.OpStatus)
	api.Get("/campaigns/:id/posts", campaignHandler.Posts)

	// Posts
	api.Get("/posts/:id", postHandler.Get)
	api.Post("/posts/:id/contacted", postHandler.MarkContacted)
	api.Post("/posts/:id/hide", postHandler.Hide)
	api.Post("/posts/:id/author-summary", postHandler.AuthorSummary)
	api.Post("/posts/:id/comments/draft", postHandler.DraftComment)
	api.Get("/posts/:id/comments", postHandler.Comments)
	api.Post("/posts/:id/comments", postHandler.RecordComment)

	// Exports
	api.Get("/export/state", exportHandler.Dump)
	api.Get("/export/campaigns/:id/csv", exportHandler.CampaignCSV)
	api.Get("/export/campaigns/:id/xlsx", exportHandler.CampaignXLSX)

	// Settings & usage
	api.Get("/settings", settingsHandler.Get)
	api.Put("/settings", settingsHandler.Update)
	api.Get("/usage", settingsHandler.Usage)
	api.Delete("/data", settingsHandler.Clear)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
