package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"loyaltyengine/internal/mlmodel"
	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockMerchants struct {
	mock.Mock
}

func (m *MockMerchants) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*models.Merchant), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSnapshots struct {
	mock.Mock
}

func (m *MockSnapshots) Latest(ctx context.Context, merchantID uint, p platform.Platform) (*models.PlatformSnapshot, error) {
	args := m.Called(ctx, merchantID, p)
	if v := args.Get(0); v != nil {
		return v.(*models.PlatformSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockScores struct {
	mock.Mock
}

func (m *MockScores) UpsertPlatformScore(ctx context.Context, w repositories.ScoreWrite) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockScores) UpsertGrandScore(ctx context.Context, merchantID uint, score float64, badge *string) error {
	args := m.Called(ctx, merchantID, score, badge)
	return args.Error(0)
}

func (m *MockScores) HistoryAggregates(ctx context.Context, merchantID uint, p platform.Platform) (*models.HistoryAggregates, error) {
	args := m.Called(ctx, merchantID, p)
	if v := args.Get(0); v != nil {
		return v.(*models.HistoryAggregates), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubPredictor struct {
	score float64
	err   error
}

func (s stubPredictor) Predict(mlmodel.FeatureVector) (float64, error) {
	return s.score, s.err
}

type stubModels struct {
	loyalty Predictor
	churn   Predictor
}

func (s stubModels) Loyalty(platform.Platform) Predictor { return s.loyalty }
func (s stubModels) Churn() Predictor                    { return s.churn }

func fixedClock() func() time.Time {
	at := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func multiplier(v float64) *float64 { return &v }

func testMerchant() *models.Merchant {
	reg := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &models.Merchant{
		MerchantID:        7,
		Email:             "shop@example.com",
		IsShipway:         true,
		MultiplierShipway: multiplier(1.5),
		RegisterShipway:   &reg,
	}
}

func testSnapshot() *models.PlatformSnapshot {
	return &models.PlatformSnapshot{
		MerchantID:    7,
		TillDate:      time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC),
		OrderCount:    10,
		BillingAmount: 1000,
		MarginAmount:  100,
	}
}

func newTestService(merchants *MockMerchants, snapshots *MockSnapshots, scores *MockScores, loyalty, churn Predictor) *Service {
	s := NewService(merchants, snapshots, scores, stubModels{loyalty: loyalty, churn: churn})
	s.now = fixedClock()
	return s
}

func TestServiceScore(t *testing.T) {
	ctx := context.Background()

	t.Run("successful score with multiplier", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(testMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)
		scores.On("UpsertPlatformScore", ctx, mock.MatchedBy(func(w repositories.ScoreWrite) bool {
			return w.MerchantID == 7 &&
				w.Platform == platform.Shipway &&
				w.FromDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) &&
				w.TillDate.Equal(time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC))
		})).Return(nil)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{score: 42.37}, stubPredictor{score: 18.9})

		res, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		require.NoError(t, err)

		assert.Equal(t, uint(7), res.MerchantID)
		assert.Equal(t, platform.Shipway, res.Platform)
		assert.InDelta(t, 42.37, res.LoyaltyScore, 1e-9)
		assert.InDelta(t, 18.9, res.ChurnRate, 1e-9)
		assert.InDelta(t, 63.555, res.WeightedScore, 1e-9)
		assert.InDelta(t, 63.56, Round2(res.WeightedScore), 1e-9)

		merchants.AssertExpectations(t)
		snapshots.AssertExpectations(t)
		scores.AssertExpectations(t)
	})

	t.Run("missing multiplier means unweighted", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchant := testMerchant()
		merchant.MultiplierShipway = nil

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(merchant, nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)
		scores.On("UpsertPlatformScore", ctx, mock.Anything).Return(nil)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{score: 50}, stubPredictor{score: 10})

		res, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		require.NoError(t, err)
		assert.InDelta(t, 50, res.WeightedScore, 1e-9)
	})

	t.Run("merchant not found", func(t *testing.T) {
		merchants := new(MockMerchants)
		merchants.On("GetByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := newTestService(merchants, new(MockSnapshots), new(MockScores), stubPredictor{}, stubPredictor{})

		_, err := svc.Score(ctx, "ghost@example.com", platform.Shipway)
		assert.ErrorIs(t, err, ErrMerchantNotFound)
	})

	t.Run("no snapshot is a no-data outcome", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(testMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestService(merchants, snapshots, new(MockScores), stubPredictor{}, stubPredictor{})

		_, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		assert.ErrorIs(t, err, ErrNoDataForPlatform)
		assert.True(t, IsNoData(err))
	})

	t.Run("model schema error aborts the request", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(testMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)

		svc := newTestService(merchants, snapshots, scores,
			stubPredictor{err: mlmodel.ErrFeatureSchema}, stubPredictor{score: 10})

		_, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		assert.ErrorIs(t, err, mlmodel.ErrFeatureSchema)
		assert.False(t, IsNoData(err))
		scores.AssertNotCalled(t, "UpsertPlatformScore", mock.Anything, mock.Anything)
	})

	t.Run("persistence failure fails the scoring attempt", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(testMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)
		scores.On("UpsertPlatformScore", ctx, mock.Anything).Return(repositories.ErrPersistence)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{score: 42}, stubPredictor{score: 10})

		_, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		assert.ErrorIs(t, err, repositories.ErrPersistence)
	})

	t.Run("identical inputs yield identical results", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(testMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)
		scores.On("UpsertPlatformScore", ctx, mock.Anything).Return(nil)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{score: 42.37}, stubPredictor{score: 18.9})

		first, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		require.NoError(t, err)
		second, err := svc.Score(ctx, "shop@example.com", platform.Shipway)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		scores.AssertNumberOfCalls(t, "UpsertPlatformScore", 2)
	})
}

func TestServiceScoreAll(t *testing.T) {
	ctx := context.Background()

	multiPlatformMerchant := func() *models.Merchant {
		m := testMerchant()
		m.IsUnicommerce = true
		m.MultiplierUnicommerce = multiplier(2)
		return m
	}

	t.Run("skips platforms without data and aggregates the rest", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(multiPlatformMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(testSnapshot(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Unicommerce).Return(nil, gorm.ErrRecordNotFound)
		scores.On("HistoryAggregates", ctx, uint(7), platform.Shipway).Return(nil, nil)
		scores.On("UpsertPlatformScore", ctx, mock.Anything).Return(nil)
		scores.On("UpsertGrandScore", ctx, uint(7), 60.0, mock.Anything).Return(nil)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{score: 40}, stubPredictor{score: 10})

		grand, err := svc.ScoreAll(ctx, "shop@example.com")
		require.NoError(t, err)

		// Only shipway produced data: 40 * 1.5 = 60.
		require.Len(t, grand.Results, 1)
		assert.Equal(t, platform.Shipway, grand.Results[0].Platform)
		assert.InDelta(t, 60, grand.GrandScore, 1e-9)
		require.NotNil(t, grand.GrandBadge)
		assert.Equal(t, BadgePlatinum, *grand.GrandBadge)

		// Convertway is not enabled, so it was never queried.
		snapshots.AssertNotCalled(t, "Latest", ctx, uint(7), platform.Convertway)
		scores.AssertExpectations(t)
	})

	t.Run("no platform has data", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		merchants.On("GetByEmail", ctx, "shop@example.com").Return(multiPlatformMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{}, stubPredictor{})

		_, err := svc.ScoreAll(ctx, "shop@example.com")
		assert.ErrorIs(t, err, ErrNoEligiblePlatforms)
		scores.AssertNotCalled(t, "UpsertGrandScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hard failure on one platform aborts the whole request", func(t *testing.T) {
		merchants := new(MockMerchants)
		snapshots := new(MockSnapshots)
		scores := new(MockScores)

		boom := errors.New("connection reset")
		merchants.On("GetByEmail", ctx, "shop@example.com").Return(multiPlatformMerchant(), nil)
		snapshots.On("Latest", ctx, uint(7), platform.Shipway).Return(nil, boom)

		svc := newTestService(merchants, snapshots, scores, stubPredictor{}, stubPredictor{})

		_, err := svc.ScoreAll(ctx, "shop@example.com")
		assert.ErrorIs(t, err, boom)
		scores.AssertNotCalled(t, "UpsertGrandScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
