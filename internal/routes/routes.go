// Package routes wires repositories, services, and handlers onto the
// fiber app.
package routes

import (
	"time"

	"loyaltyengine/internal/handlers"
	"loyaltyengine/internal/middleware"
	"loyaltyengine/internal/mlmodel"
	"loyaltyengine/internal/repositories"
	"loyaltyengine/internal/services/auth"
	"loyaltyengine/internal/services/insights"
	"loyaltyengine/internal/services/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, registry *mlmodel.Registry, dbTimeout time.Duration) {
	// Repositories
	merchantRepo := repositories.NewMerchantRepository(db, repositories.CacheService)
	snapshotRepo := repositories.NewSnapshotRepository(db)
	scoreRepo := repositories.NewScoreRepository(db, dbTimeout)
	insightsRepo := repositories.NewInsightsRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	scoringService := scoring.NewService(merchantRepo, snapshotRepo, scoreRepo, scoring.Models(registry))
	insightsService := insights.NewService(insightsRepo, repositories.CacheService)
	authService := auth.NewService(userRepo)

	// Handlers
	scoreHandler := handlers.NewScoreHandler(scoringService)
	insightsHandler := handlers.NewInsightsHandler(insightsService)
	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api", middleware.RequestID)

	api.Get("/health", handlers.HealthCheck)

	// Scoring endpoints, consumed by the platform integrations.
	api.Get("/loyalty-score", scoreHandler.GetLoyaltyScore)
	api.Get("/loyalty-score/multi-platform", scoreHandler.GetMultiPlatformScore)

	// Dashboard auth
	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}), authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Post("/logout", authMiddleware.Handler, authHandler.Logout)

	// Admin insights
	admin := api.Group("/insights", authMiddleware.Handler, middleware.AdminOnly)
	admin.Get("/grand/top", insightsHandler.TopGrandScores)
	admin.Get("/:platform/loyal-at-risk", insightsHandler.LoyalAtRisk)
	admin.Get("/:platform/mid-loyalty-churn", insightsHandler.MidLoyaltyHighChurn)
	admin.Get("/:platform/top-loyalty", insightsHandler.TopLoyalty)
}
