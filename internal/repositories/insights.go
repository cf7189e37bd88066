package repositories

import (
	"context"
	"fmt"

	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"

	"gorm.io/gorm"
)

// GrandLeaderRow is one entry of the grand-score leaderboard.
type GrandLeaderRow struct {
	MerchantID uint    `gorm:"column:merchant_id" json:"merchant_id"`
	GrandScore float64 `gorm:"column:grand_score" json:"grand_score"`
	GrandBadge *string `gorm:"column:grand_badge" json:"grand_badge"`
}

// PlatformScoreRow is one merchant's current scores on one platform.
type PlatformScoreRow struct {
	MerchantID   uint    `gorm:"column:merchant_id" json:"merchant_id"`
	LoyaltyScore float64 `gorm:"column:loyalty_score" json:"loyalty_score"`
	ChurnRate    float64 `gorm:"column:churn_rate" json:"churn_rate"`
}

// TopLoyaltyRow adds lifetime order totals from the platform data table.
type TopLoyaltyRow struct {
	MerchantID   uint    `gorm:"column:merchant_id" json:"merchant_id"`
	LoyaltyScore float64 `gorm:"column:loyalty_score" json:"loyalty_score"`
	TotalOrders  float64 `gorm:"column:total_orders" json:"total_orders"`
	TotalBilling float64 `gorm:"column:total_billing" json:"total_billing"`
}

type InsightsRepository interface {
	TopGrandScores(ctx context.Context, limit int) ([]GrandLeaderRow, error)
	LoyalAtRisk(ctx context.Context, p platform.Platform, limit int) ([]PlatformScoreRow, error)
	MidLoyaltyHighChurn(ctx context.Context, p platform.Platform, limit int) ([]PlatformScoreRow, error)
	TopLoyalty(ctx context.Context, p platform.Platform, limit int) ([]TopLoyaltyRow, error)
}

type insightsRepository struct {
	db *gorm.DB
}

func NewInsightsRepository(db *gorm.DB) InsightsRepository {
	return &insightsRepository{db: db}
}

func (r *insightsRepository) TopGrandScores(ctx context.Context, limit int) ([]GrandLeaderRow, error) {
	var rows []GrandLeaderRow
	err := r.db.WithContext(ctx).
		Table(models.ScoreRecord{}.TableName()).
		Select("merchant_id, grand_score, grand_badge").
		Where("grand_score IS NOT NULL").
		Order("grand_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// LoyalAtRisk lists the platform's highest-loyalty merchants ranked by
// churn risk; the merchants worth retaining first.
func (r *insightsRepository) LoyalAtRisk(ctx context.Context, p platform.Platform, limit int) ([]PlatformScoreRow, error) {
	lc, cc := p.LoyaltyColumn(), p.ChurnColumn()

	var rows []PlatformScoreRow
	err := r.db.WithContext(ctx).
		Table(models.ScoreRecord{}.TableName()).
		Select(fmt.Sprintf("merchant_id, %s AS loyalty_score, %s AS churn_rate", lc, cc)).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s IS NOT NULL", lc, cc)).
		Order(fmt.Sprintf("%s DESC, %s DESC", lc, cc)).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// MidLoyaltyHighChurn lists merchants with average loyalty (20-40) and
// churn risk above 40, ordered by churn descending.
func (r *insightsRepository) MidLoyaltyHighChurn(ctx context.Context, p platform.Platform, limit int) ([]PlatformScoreRow, error) {
	lc, cc := p.LoyaltyColumn(), p.ChurnColumn()

	var rows []PlatformScoreRow
	err := r.db.WithContext(ctx).
		Table(models.ScoreRecord{}.TableName()).
		Select(fmt.Sprintf("merchant_id, %s AS loyalty_score, %s AS churn_rate", lc, cc)).
		Where(fmt.Sprintf("%s BETWEEN 20 AND 40 AND %s > 40", lc, cc)).
		Order(fmt.Sprintf("%s DESC", cc)).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *insightsRepository) TopLoyalty(ctx context.Context, p platform.Platform, limit int) ([]TopLoyaltyRow, error) {
	lc := p.LoyaltyColumn()

	var rows []TopLoyaltyRow
	err := r.db.WithContext(ctx).
		Table(models.ScoreRecord{}.TableName()).
		Select(fmt.Sprintf("merchant_id, %s AS loyalty_score", lc)).
		Where(fmt.Sprintf("%s IS NOT NULL", lc)).
		Order(fmt.Sprintf("%s DESC", lc)).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		var totals struct {
			TotalOrders  float64 `gorm:"column:total_orders"`
			TotalBilling float64 `gorm:"column:total_billing"`
		}
		err := r.db.WithContext(ctx).
			Table(p.DataTable()).
			Select("COALESCE(SUM(order_count), 0) AS total_orders, COALESCE(SUM(billing_amount), 0) AS total_billing").
			Where("merchant_id = ?", rows[i].MerchantID).
			Scan(&totals).Error
		if err != nil {
			return nil, err
		}
		rows[i].TotalOrders = totals.TotalOrders
		rows[i].TotalBilling = totals.TotalBilling
	}
	return rows, nil
}
