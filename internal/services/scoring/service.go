// Package scoring implements the per-platform scoring pipeline and the
// multi-platform aggregation: snapshot → derived features → model
// predictions → weighting → persisted current and history scores.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/repositories"

	"gorm.io/gorm"
)

type Service struct {
	merchants  MerchantReader
	snapshots  SnapshotReader
	scores     ScoreStore
	models     ModelSet
	aggregator *Aggregator

	// injected clock; feature derivation must be deterministic in tests
	now func() time.Time
}

func NewService(merchants MerchantReader, snapshots SnapshotReader, scores ScoreStore, modelSet ModelSet) *Service {
	return &Service{
		merchants:  merchants,
		snapshots:  snapshots,
		scores:     scores,
		models:     modelSet,
		aggregator: NewAggregator(scores),
		now:        time.Now,
	}
}

// Score runs the full pipeline for one merchant on one platform and
// persists the outcome. The platform has already been validated by the
// caller against the closed platform set.
func (s *Service) Score(ctx context.Context, email string, p platform.Platform) (*Result, error) {
	merchant, err := s.resolveMerchant(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.scoreMerchant(ctx, merchant, p)
}

// ScoreAll scores every platform the merchant is enabled on, skipping
// platforms without data, then aggregates the survivors into the grand
// score and badge. Platforms are processed sequentially; each platform's
// write commits in its own transaction.
func (s *Service) ScoreAll(ctx context.Context, email string) (*GrandResult, error) {
	merchant, err := s.resolveMerchant(ctx, email)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, p := range platform.All() {
		if !merchant.EnabledOn(p) {
			continue
		}
		res, err := s.scoreMerchant(ctx, merchant, p)
		if err != nil {
			if IsNoData(err) {
				log.Printf("merchant %d has no %s data, skipping", merchant.MerchantID, p)
				continue
			}
			return nil, err
		}
		results = append(results, *res)
	}

	grandScore, badge, err := s.aggregator.Aggregate(ctx, merchant.MerchantID, results)
	if err != nil {
		return nil, err
	}

	return &GrandResult{
		MerchantID: merchant.MerchantID,
		Email:      merchant.Email,
		Results:    results,
		GrandScore: grandScore,
		GrandBadge: badge,
	}, nil
}

func (s *Service) resolveMerchant(ctx context.Context, email string) (*models.Merchant, error) {
	merchant, err := s.merchants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMerchantNotFound, email)
		}
		return nil, fmt.Errorf("resolve merchant: %w", err)
	}
	return merchant, nil
}

func (s *Service) scoreMerchant(ctx context.Context, merchant *models.Merchant, p platform.Platform) (*Result, error) {
	snap, err := s.snapshots.Latest(ctx, merchant.MerchantID, p)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoDataForPlatform, p)
		}
		return nil, fmt.Errorf("fetch %s snapshot: %w", p, err)
	}

	// History is optional; only a real query failure is an error.
	hist, err := s.scores.HistoryAggregates(ctx, merchant.MerchantID, p)
	if err != nil {
		return nil, fmt.Errorf("fetch history aggregates: %w", err)
	}

	features := DeriveFeatures(snap, merchant.RegisteredOn(p), hist, s.now())

	loyalty, err := s.models.Loyalty(p).Predict(features)
	if err != nil {
		return nil, fmt.Errorf("%s loyalty prediction: %w", p, err)
	}
	churn, err := s.models.Churn().Predict(features)
	if err != nil {
		return nil, fmt.Errorf("churn prediction: %w", err)
	}

	multiplier := merchant.Multiplier(p)
	fromDate := monthStart(snap.TillDate)

	if err := s.scores.UpsertPlatformScore(ctx, repositories.ScoreWrite{
		MerchantID:   merchant.MerchantID,
		Platform:     p,
		LoyaltyScore: loyalty,
		ChurnRate:    churn,
		FromDate:     fromDate,
		TillDate:     snap.TillDate,
	}); err != nil {
		return nil, err
	}

	return &Result{
		MerchantID:    merchant.MerchantID,
		Email:         merchant.Email,
		Platform:      p,
		LoyaltyScore:  loyalty,
		ChurnRate:     churn,
		Multiplier:    multiplier,
		WeightedScore: loyalty * multiplier,
		FromDate:      fromDate,
		TillDate:      snap.TillDate,
	}, nil
}
