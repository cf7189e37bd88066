package scoring

import (
	"testing"
	"time"

	"loyaltyengine/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFeatures(t *testing.T) {
	processedAt := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	t.Run("ratios with healthy denominators", func(t *testing.T) {
		snap := &models.PlatformSnapshot{
			OrderCount:        10,
			BillingAmount:     1000,
			MarginAmount:      100,
			UndeliveredOrders: 2,
		}

		v := DeriveFeatures(snap, nil, nil, processedAt)
		assert.InDelta(t, 0.2, v[FeatReturnRate], 1e-9)
		assert.InDelta(t, 0.1, v[FeatMarginRatio], 1e-9)
	})

	t.Run("zero denominators are floored at one, never divide by zero", func(t *testing.T) {
		snap := &models.PlatformSnapshot{
			OrderCount:        0,
			BillingAmount:     0,
			MarginAmount:      55,
			UndeliveredOrders: 3,
		}

		v := DeriveFeatures(snap, nil, nil, processedAt)
		assert.InDelta(t, 3, v[FeatReturnRate], 1e-9)
		assert.InDelta(t, 55, v[FeatMarginRatio], 1e-9)
	})

	t.Run("no history yields zero-valued features, not missing keys", func(t *testing.T) {
		v := DeriveFeatures(&models.PlatformSnapshot{}, nil, nil, processedAt)

		for _, feat := range []string{FeatAvgLoyaltyScore, FeatAvgChurnRate, FeatLoyaltyScoreDelta, FeatHistoryMonths} {
			val, ok := v[feat]
			assert.True(t, ok, "feature %s must be present", feat)
			assert.Zero(t, val)
		}
	})

	t.Run("history aggregates flow through", func(t *testing.T) {
		hist := &models.HistoryAggregates{
			AvgLoyaltyScore:   44.5,
			AvgChurnRate:      21.25,
			LoyaltyScoreDelta: 12,
			HistoryMonths:     6,
		}

		v := DeriveFeatures(&models.PlatformSnapshot{}, nil, hist, processedAt)
		assert.InDelta(t, 44.5, v[FeatAvgLoyaltyScore], 1e-9)
		assert.InDelta(t, 21.25, v[FeatAvgChurnRate], 1e-9)
		assert.InDelta(t, 12, v[FeatLoyaltyScoreDelta], 1e-9)
		assert.InDelta(t, 6, v[FeatHistoryMonths], 1e-9)
	})

	t.Run("merchant age uses injected processing time", func(t *testing.T) {
		registered := processedAt.AddDate(0, 0, -100)

		v := DeriveFeatures(&models.PlatformSnapshot{}, &registered, nil, processedAt)
		assert.InDelta(t, 100, v[FeatMerchantAgeDays], 1e-9)

		// Same inputs, later processing time: a different, still
		// deterministic age.
		v2 := DeriveFeatures(&models.PlatformSnapshot{}, &registered, nil, processedAt.AddDate(0, 0, 30))
		assert.InDelta(t, 130, v2[FeatMerchantAgeDays], 1e-9)
	})

	t.Run("merchant age never negative and defaults to zero", func(t *testing.T) {
		future := processedAt.AddDate(0, 1, 0)

		v := DeriveFeatures(&models.PlatformSnapshot{}, &future, nil, processedAt)
		assert.Zero(t, v[FeatMerchantAgeDays])

		v = DeriveFeatures(&models.PlatformSnapshot{}, nil, nil, processedAt)
		assert.Zero(t, v[FeatMerchantAgeDays])
	})
}
