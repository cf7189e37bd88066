package scoring

import (
	"context"

	"loyaltyengine/internal/mlmodel"
	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"
	"loyaltyengine/internal/repositories"
)

type MerchantReader interface {
	GetByEmail(ctx context.Context, email string) (*models.Merchant, error)
}

type SnapshotReader interface {
	Latest(ctx context.Context, merchantID uint, p platform.Platform) (*models.PlatformSnapshot, error)
}

type ScoreStore interface {
	UpsertPlatformScore(ctx context.Context, w repositories.ScoreWrite) error
	UpsertGrandScore(ctx context.Context, merchantID uint, score float64, badge *string) error
	HistoryAggregates(ctx context.Context, merchantID uint, p platform.Platform) (*models.HistoryAggregates, error)
}

type Predictor interface {
	Predict(v mlmodel.FeatureVector) (float64, error)
}

type ModelSet interface {
	Loyalty(p platform.Platform) Predictor
	Churn() Predictor
}

// Models adapts the artifact registry to the ModelSet interface.
func Models(r *mlmodel.Registry) ModelSet {
	return registryModels{r: r}
}

type registryModels struct {
	r *mlmodel.Registry
}

func (m registryModels) Loyalty(p platform.Platform) Predictor { return m.r.Loyalty(p) }
func (m registryModels) Churn() Predictor                      { return m.r.Churn() }
