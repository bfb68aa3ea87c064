package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/logger"
	"github.com/example/brritto/internal/routes"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(!cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: "Brritto Web",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, cfg, zlog)

	zlog.Infow("starting server", "port", cfg.AppPort, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatalw("fiber.Listen error", "error", err)
	}
}
