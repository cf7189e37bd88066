// Package main is the entry point for the loyalty scoring engine.
// It loads configuration and model artifacts, connects to the
// databases, and starts the HTTP server.
package main

import (
	"context"
	"log"
	"time"

	"loyaltyengine/internal/config"
	"loyaltyengine/internal/mlmodel"
	"loyaltyengine/internal/repositories"
	"loyaltyengine/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Model artifacts are immutable for the process lifetime; a broken
	// artifact must never make it to serving.
	registry, err := mlmodel.LoadRegistry(config.GetEnv("MODEL_DIR", "models"))
	if err != nil {
		log.Fatalf("Failed to load model artifacts: %v", err)
	}

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	// Clear Redis cache on startup so stale merchant rows never survive
	// a deploy.
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("⚠️ Failed to flush Redis cache: %v", err)
		} else {
			log.Println("✅ Redis cache flushed on startup")
		}
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	dbTimeout := config.GetDurationEnv("DB_TIMEOUT", 5*time.Second)
	routes.SetupRoutes(app, repositories.DB, registry, dbTimeout)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
