package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/healthequalizer/api/internal/api/middleware/requestid"
	"github.com/healthequalizer/api/internal/platform/metrics"
)

const appName = "Health Equalizer API v1.0.0"

// RouterConfig holds server limits applied to the fiber app.
type RouterConfig struct {
	BodyLimitMB  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Router(handler *Handler, config RouterConfig) *fiber.App {
	if config.BodyLimitMB <= 0 {
		config.BodyLimitMB = 25
	}

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
		BodyLimit:    config.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: fmt.Sprintf("${time} [req_id=${locals:%s}] ${status} - ${latency} ${method} ${path}\n", requestid.ContextKeyRequestID),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + requestid.HeaderRequestID,
		ExposeHeaders: requestid.HeaderRequestID,
	}))

	app.Get("/", handler.Home)
	app.Get("/health", handler.Health)
	app.Get("/emergency", handler.Emergency)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Get("/health_queries", handler.HealthQueriesInfo)
	app.Post("/health_queries", handler.AskHealthQuery)
	app.Post("/health_queries_audio", handler.TranscribeAudio)
	app.Get("/providers", handler.Providers)

	return app
}
