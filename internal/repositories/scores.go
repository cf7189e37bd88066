package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrPersistence marks a failed current+history write; the whole
	// transaction was rolled back.
	ErrPersistence = errors.New("score persistence failed")
	// ErrPersistenceTimeout marks a write that ran out of its deadline.
	ErrPersistenceTimeout = errors.New("score persistence timed out")
)

// ScoreWrite carries one platform's computed scores to the store.
type ScoreWrite struct {
	MerchantID   uint
	Platform     platform.Platform
	LoyaltyScore float64
	ChurnRate    float64
	FromDate     time.Time
	TillDate     time.Time
}

type ScoreRepository interface {
	// UpsertPlatformScore writes the current record and the monthly
	// history entry in one transaction; either both commit or neither.
	UpsertPlatformScore(ctx context.Context, w ScoreWrite) error
	// UpsertGrandScore overwrites only the aggregate columns.
	UpsertGrandScore(ctx context.Context, merchantID uint, score float64, badge *string) error
	// HistoryAggregates summarizes the merchant's history for one
	// platform; (nil, nil) when no history exists.
	HistoryAggregates(ctx context.Context, merchantID uint, p platform.Platform) (*models.HistoryAggregates, error)
}

type scoreRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewScoreRepository(db *gorm.DB, timeout time.Duration) ScoreRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &scoreRepository{db: db, timeout: timeout}
}

func (r *scoreRepository) UpsertPlatformScore(ctx context.Context, w ScoreWrite) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize writers per merchant so the committed record always
		// reflects the most recently completed read.
		if err := advisoryLock(tx, w.MerchantID); err != nil {
			return err
		}

		now := time.Now()
		currentUpdates := map[string]interface{}{
			w.Platform.LoyaltyColumn(): w.LoyaltyScore,
			w.Platform.ChurnColumn():   w.ChurnRate,
			w.Platform.SyncColumn():    w.TillDate,
			"updated_on":               now,
		}
		currentRow := map[string]interface{}{"merchant_id": w.MerchantID}
		for col, val := range currentUpdates {
			currentRow[col] = val
		}
		if err := tx.Table(models.ScoreRecord{}.TableName()).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "merchant_id"}},
				DoUpdates: clause.Assignments(currentUpdates),
			}).
			Create(currentRow).Error; err != nil {
			return err
		}

		historyUpdates := map[string]interface{}{
			"till_date":                w.TillDate,
			w.Platform.LoyaltyColumn(): w.LoyaltyScore,
			w.Platform.ChurnColumn():   w.ChurnRate,
			"updated_on":               now,
		}
		historyRow := map[string]interface{}{
			"merchant_id": w.MerchantID,
			"from_date":   w.FromDate,
			"added_on":    now,
		}
		for col, val := range historyUpdates {
			historyRow[col] = val
		}
		return tx.Table(models.ScoreHistoryEntry{}.TableName()).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "merchant_id"}, {Name: "from_date"}},
				DoUpdates: clause.Assignments(historyUpdates),
			}).
			Create(historyRow).Error
	})

	return classifyWriteErr(err)
}

func (r *scoreRepository) UpsertGrandScore(ctx context.Context, merchantID uint, score float64, badge *string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, merchantID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"grand_score": score,
			"grand_badge": badge,
			"updated_on":  time.Now(),
		}
		row := map[string]interface{}{"merchant_id": merchantID}
		for col, val := range updates {
			row[col] = val
		}
		return tx.Table(models.ScoreRecord{}.TableName()).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "merchant_id"}},
				DoUpdates: clause.Assignments(updates),
			}).
			Create(row).Error
	})

	return classifyWriteErr(err)
}

func (r *scoreRepository) HistoryAggregates(ctx context.Context, merchantID uint, p platform.Platform) (*models.HistoryAggregates, error) {
	lc, cc := p.LoyaltyColumn(), p.ChurnColumn()

	var agg models.HistoryAggregates
	err := r.db.WithContext(ctx).
		Table(models.ScoreHistoryEntry{}.TableName()).
		Select(fmt.Sprintf(
			"COALESCE(AVG(%[1]s), 0) AS avg_loyalty_score, "+
				"COALESCE(AVG(%[2]s), 0) AS avg_churn_rate, "+
				"COALESCE(MAX(%[1]s) - MIN(%[1]s), 0) AS loyalty_score_delta, "+
				"COUNT(*) AS history_months",
			lc, cc)).
		Where(fmt.Sprintf("merchant_id = ? AND %s IS NOT NULL", lc), merchantID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	if agg.HistoryMonths == 0 {
		return nil, nil
	}
	return &agg, nil
}

func advisoryLock(tx *gorm.DB, merchantID uint) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(merchantID)).Error
}

func classifyWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrPersistenceTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
