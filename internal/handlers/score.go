// Package handlers translates HTTP requests into service calls and maps
// service errors onto the response contract.
package handlers

import (
	"errors"
	"log"

	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/repositories"
	"loyaltyengine/internal/services/scoring"
	"loyaltyengine/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ScoreHandler struct {
	scoringService *scoring.Service
}

func NewScoreHandler(scoringService *scoring.Service) *ScoreHandler {
	return &ScoreHandler{scoringService: scoringService}
}

// platformScoreResponse is the stable per-platform contract; scores are
// rounded to two decimals here and nowhere earlier.
type platformScoreResponse struct {
	Email             string  `json:"email"`
	MerchantID        uint    `json:"merchant_id"`
	Platform          string  `json:"platform"`
	LoyaltyScore      float64 `json:"loyalty_score"`
	MerchantChurnRate float64 `json:"merchant_churn_rate"`
	WeightedScore     float64 `json:"weighted_score"`
}

type multiPlatformResponse struct {
	Email             string                  `json:"email"`
	MerchantID        uint                    `json:"merchant_id"`
	PlatformScores    []platformScoreResponse `json:"platform_scores"`
	GrandLoyaltyScore float64                 `json:"grand_loyalty_score"`
	GrandBadge        *string                 `json:"grand_badge"`
}

func toPlatformScoreResponse(r scoring.Result) platformScoreResponse {
	return platformScoreResponse{
		Email:             r.Email,
		MerchantID:        r.MerchantID,
		Platform:          r.Platform.String(),
		LoyaltyScore:      scoring.Round2(r.LoyaltyScore),
		MerchantChurnRate: scoring.Round2(r.ChurnRate),
		WeightedScore:     scoring.Round2(r.WeightedScore),
	}
}

// GetLoyaltyScore handles GET /api/loyalty-score?email=&platform=.
func (h *ScoreHandler) GetLoyaltyScore(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return response.BadRequest(c, "email is required")
	}

	p, err := platform.Parse(c.Query("platform"))
	if err != nil {
		return response.BadRequest(c, "Invalid platform.")
	}

	result, err := h.scoringService.Score(c.UserContext(), email, p)
	if err != nil {
		return h.scoreError(c, err)
	}

	return c.JSON(toPlatformScoreResponse(*result))
}

// GetMultiPlatformScore handles GET /api/loyalty-score/multi-platform?email=.
func (h *ScoreHandler) GetMultiPlatformScore(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return response.BadRequest(c, "email is required")
	}

	grand, err := h.scoringService.ScoreAll(c.UserContext(), email)
	if err != nil {
		return h.scoreError(c, err)
	}

	scores := make([]platformScoreResponse, 0, len(grand.Results))
	for _, r := range grand.Results {
		scores = append(scores, toPlatformScoreResponse(r))
	}

	return c.JSON(multiPlatformResponse{
		Email:             grand.Email,
		MerchantID:        grand.MerchantID,
		PlatformScores:    scores,
		GrandLoyaltyScore: grand.GrandScore,
		GrandBadge:        grand.GrandBadge,
	})
}

func (h *ScoreHandler) scoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scoring.ErrMerchantNotFound):
		return response.NotFound(c, "Merchant not found")
	case errors.Is(err, scoring.ErrNoDataForPlatform):
		return response.NotFound(c, "No data found for platform")
	case errors.Is(err, scoring.ErrNoEligiblePlatforms):
		return response.NotFound(c, "Merchant not found on any platform or no data.")
	case errors.Is(err, repositories.ErrPersistenceTimeout):
		log.Printf("request %v: %v", c.Locals("requestID"), err)
		return response.Error(c, fiber.StatusGatewayTimeout, "Score persistence timed out")
	default:
		log.Printf("request %v: %v", c.Locals("requestID"), err)
		return response.ServerError(c, "Internal error")
	}
}
