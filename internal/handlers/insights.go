package handlers

import (
	"log"

	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/services/insights"
	"loyaltyengine/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type InsightsHandler struct {
	insightsService *insights.Service
}

func NewInsightsHandler(insightsService *insights.Service) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

func (h *InsightsHandler) TopGrandScores(c *fiber.Ctx) error {
	rows, err := h.insightsService.TopGrandScores(c.UserContext())
	if err != nil {
		log.Printf("insights grand top: %v", err)
		return response.ServerError(c, "Internal server error")
	}
	return response.Success(c, "Top merchants by grand score", rows)
}

func (h *InsightsHandler) LoyalAtRisk(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return response.BadRequest(c, "Invalid platform.")
	}

	rows, err := h.insightsService.LoyalAtRisk(c.UserContext(), p)
	if err != nil {
		log.Printf("insights %s loyal-at-risk: %v", p, err)
		return response.ServerError(c, "Internal server error")
	}
	return response.Success(c, "High-loyalty merchants at churn risk", rows)
}

func (h *InsightsHandler) MidLoyaltyHighChurn(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return response.BadRequest(c, "Invalid platform.")
	}

	rows, err := h.insightsService.MidLoyaltyHighChurn(c.UserContext(), p)
	if err != nil {
		log.Printf("insights %s mid-loyalty-churn: %v", p, err)
		return response.ServerError(c, "Internal server error")
	}
	return response.Success(c, "Average-loyalty high-churn merchants", rows)
}

func (h *InsightsHandler) TopLoyalty(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return response.BadRequest(c, "Invalid platform.")
	}

	rows, err := h.insightsService.TopLoyalty(c.UserContext(), p)
	if err != nil {
		log.Printf("insights %s top-loyalty: %v", p, err)
		return response.ServerError(c, "Internal server error")
	}
	return response.Success(c, "Top merchants by loyalty score", rows)
}
