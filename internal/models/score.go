package models

import "time"

// ScoreRecord is the current score row, one per merchant. Platform
// columns are overwritten on every successful scoring request; the
// grand columns only by multi-platform aggregation.
type ScoreRecord struct {
	MerchantID uint `gorm:"primarykey;column:merchant_id" json:"merchant_id"`

	LoyaltyScoreShipway     *float64 `gorm:"column:loyalty_score_shipway" json:"loyalty_score_shipway"`
	LoyaltyScoreUnicommerce *float64 `gorm:"column:loyalty_score_unicommerce" json:"loyalty_score_unicommerce"`
	LoyaltyScoreConvertway  *float64 `gorm:"column:loyalty_score_convertway" json:"loyalty_score_convertway"`

	ChurnRateShipway     *float64 `gorm:"column:churn_rate_shipway" json:"churn_rate_shipway"`
	ChurnRateUnicommerce *float64 `gorm:"column:churn_rate_unicommerce" json:"churn_rate_unicommerce"`
	ChurnRateConvertway  *float64 `gorm:"column:churn_rate_convertway" json:"churn_rate_convertway"`

	SyncTillShipway     *time.Time `gorm:"column:sync_till_shipway" json:"sync_till_shipway"`
	SyncTillUnicommerce *time.Time `gorm:"column:sync_till_unicommerce" json:"sync_till_unicommerce"`
	SyncTillConvertway  *time.Time `gorm:"column:sync_till_convertway" json:"sync_till_convertway"`

	GrandScore *float64 `gorm:"column:grand_score" json:"grand_score"`
	GrandBadge *string  `gorm:"column:grand_badge" json:"grand_badge"`

	UpdatedOn time.Time `gorm:"column:updated_on" json:"updated_on"`
}

func (ScoreRecord) TableName() string { return "merchants_scores" }

// ScoreHistoryEntry is the monthly score row, keyed by merchant and the
// first day of the month it covers. Re-scoring within the same month
// updates the row in place rather than appending.
type ScoreHistoryEntry struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	MerchantID uint      `gorm:"column:merchant_id;uniqueIndex:idx_merchant_month" json:"merchant_id"`
	FromDate   time.Time `gorm:"column:from_date;uniqueIndex:idx_merchant_month" json:"from_date"`
	TillDate   time.Time `gorm:"column:till_date" json:"till_date"`

	LoyaltyScoreShipway     *float64 `gorm:"column:loyalty_score_shipway" json:"loyalty_score_shipway"`
	LoyaltyScoreUnicommerce *float64 `gorm:"column:loyalty_score_unicommerce" json:"loyalty_score_unicommerce"`
	LoyaltyScoreConvertway  *float64 `gorm:"column:loyalty_score_convertway" json:"loyalty_score_convertway"`

	ChurnRateShipway     *float64 `gorm:"column:churn_rate_shipway" json:"churn_rate_shipway"`
	ChurnRateUnicommerce *float64 `gorm:"column:churn_rate_unicommerce" json:"churn_rate_unicommerce"`
	ChurnRateConvertway  *float64 `gorm:"column:churn_rate_convertway" json:"churn_rate_convertway"`

	AddedOn   time.Time `gorm:"column:added_on" json:"added_on"`
	UpdatedOn time.Time `gorm:"column:updated_on" json:"updated_on"`
}

func (ScoreHistoryEntry) TableName() string { return "merchants_scores_history" }

// HistoryAggregates summarizes a merchant's score history for one
// platform; feeds next month's feature vector.
type HistoryAggregates struct {
	AvgLoyaltyScore   float64 `gorm:"column:avg_loyalty_score" json:"avg_loyalty_score"`
	AvgChurnRate      float64 `gorm:"column:avg_churn_rate" json:"avg_churn_rate"`
	LoyaltyScoreDelta float64 `gorm:"column:loyalty_score_delta" json:"loyalty_score_delta"`
	HistoryMonths     int64   `gorm:"column:history_months" json:"history_months"`
}
