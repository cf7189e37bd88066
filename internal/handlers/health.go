package handlers

import (
	"loyaltyengine/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and cache connectivity.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		status["status"] = "degraded"
		status["database"] = "down"
	} else {
		status["database"] = "up"
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["cache"] = "down"
		} else {
			status["cache"] = "up"
		}
	}

	if status["status"] != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
