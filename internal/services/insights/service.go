// Package insights serves the dashboard leaderboards over the current
// score records: who to reward and who to call before they leave.
package insights

import (
	"context"
	"fmt"
	"time"

	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/repositories"
	"loyaltyengine/internal/repositories/cache"
)

const (
	grandLimit       = 50
	platformLimit    = 10
	topLoyaltyLimit  = 5
	leaderboardCache = time.Minute
)

type Service struct {
	repo  repositories.InsightsRepository
	cache *cache.CacheService
}

func NewService(repo repositories.InsightsRepository, cacheSvc *cache.CacheService) *Service {
	return &Service{repo: repo, cache: cacheSvc}
}

// TopGrandScores lists the best merchants across all platforms.
func (s *Service) TopGrandScores(ctx context.Context) ([]repositories.GrandLeaderRow, error) {
	key := "insights:grand:top"
	var rows []repositories.GrandLeaderRow
	if s.cached(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.TopGrandScores(ctx, grandLimit)
	if err != nil {
		return nil, fmt.Errorf("top grand scores: %w", err)
	}
	s.store(ctx, key, rows)
	return rows, nil
}

// LoyalAtRisk lists high-loyalty merchants with high churn risk on one
// platform.
func (s *Service) LoyalAtRisk(ctx context.Context, p platform.Platform) ([]repositories.PlatformScoreRow, error) {
	key := fmt.Sprintf("insights:%s:loyal-at-risk", p)
	var rows []repositories.PlatformScoreRow
	if s.cached(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.LoyalAtRisk(ctx, p, platformLimit)
	if err != nil {
		return nil, fmt.Errorf("%s loyal-at-risk: %w", p, err)
	}
	s.store(ctx, key, rows)
	return rows, nil
}

// MidLoyaltyHighChurn lists the mid-tier merchants most likely to leave.
func (s *Service) MidLoyaltyHighChurn(ctx context.Context, p platform.Platform) ([]repositories.PlatformScoreRow, error) {
	key := fmt.Sprintf("insights:%s:mid-loyalty-churn", p)
	var rows []repositories.PlatformScoreRow
	if s.cached(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.MidLoyaltyHighChurn(ctx, p, platformLimit)
	if err != nil {
		return nil, fmt.Errorf("%s mid-loyalty-churn: %w", p, err)
	}
	s.store(ctx, key, rows)
	return rows, nil
}

// TopLoyalty lists the platform's top merchants with order totals.
func (s *Service) TopLoyalty(ctx context.Context, p platform.Platform) ([]repositories.TopLoyaltyRow, error) {
	key := fmt.Sprintf("insights:%s:top-loyalty", p)
	var rows []repositories.TopLoyaltyRow
	if s.cached(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.TopLoyalty(ctx, p, topLoyaltyLimit)
	if err != nil {
		return nil, fmt.Errorf("%s top-loyalty: %w", p, err)
	}
	s.store(ctx, key, rows)
	return rows, nil
}

func (s *Service) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	return err == nil && found
}

func (s *Service) store(ctx context.Context, key string, rows interface{}) {
	if s.cache == nil {
		return
	}
	// Stale-by-a-minute leaderboards are acceptable; cache errors are not.
	_ = s.cache.SetWithTTL(ctx, key, rows, leaderboardCache)
}
