package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nlzhang/homepage/internal/pkg/cache"
	"github.com/nlzhang/homepage/internal/pkg/env"
	"github.com/nlzhang/homepage/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()

	// The KV store is optional. Without CACHE_HOST every /api endpoint
	// answers 501 and clients fall back to local counting.
	if env.GetEnv("CACHE_HOST", "") != "" {
		cache.SetupCache()
	} else {
		log.Println("CACHE_HOST not set, running without a KV store")
	}

	// init fiber app
	app := fiber.New(fiber.Config{})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         "./public/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
