package scoring

import (
	"time"

	"loyaltyengine/internal/mlmodel"
	"loyaltyengine/internal/models"
)

// Canonical feature names. Every model artifact declares a subset of
// these; the deriver always emits all of them.
const (
	FeatOrderCount           = "order_count"
	FeatBillingAmount        = "billing_amount"
	FeatMarginAmount         = "margin_amount"
	FeatComplaintCount       = "complaint_count"
	FeatReturnedOrders       = "returned_orders"
	FeatUndeliveredOrders    = "undelivered_orders"
	FeatServicesAmount       = "services_amount"
	FeatDelayedOrders        = "delayed_orders"
	FeatAverageResolutionTAT = "average_resolution_tat"
	FeatMerchantAgeDays      = "merchant_age_days"
	FeatReturnRate           = "return_rate"
	FeatMarginRatio          = "margin_ratio"
	FeatAvgLoyaltyScore      = "avg_loyalty_score"
	FeatAvgChurnRate         = "avg_churn_rate"
	FeatLoyaltyScoreDelta    = "loyalty_score_delta"
	FeatHistoryMonths        = "history_months"
)

// DeriveFeatures builds the full feature vector from a snapshot, the
// merchant's platform registration date, and optional history
// aggregates. processedAt is injected so two runs over the same data at
// the same instant derive identical vectors.
//
// Ratio denominators are floored at 1 instead of skipping zero rows;
// a deliberate smoothing bias carried over from training, so a merchant
// with no orders scores on raw numerators rather than blowing up.
// Missing history yields zero-valued history features, matching how the
// models were trained (fillna(0)), so prediction never fails on them.
func DeriveFeatures(snap *models.PlatformSnapshot, registeredOn *time.Time, hist *models.HistoryAggregates, processedAt time.Time) mlmodel.FeatureVector {
	v := mlmodel.FeatureVector{
		FeatOrderCount:           snap.OrderCount,
		FeatBillingAmount:        snap.BillingAmount,
		FeatMarginAmount:         snap.MarginAmount,
		FeatComplaintCount:       snap.ComplaintCount,
		FeatReturnedOrders:       snap.ReturnedOrders,
		FeatUndeliveredOrders:    snap.UndeliveredOrders,
		FeatServicesAmount:       snap.ServicesAmount,
		FeatDelayedOrders:        snap.DelayedOrders,
		FeatAverageResolutionTAT: snap.AverageResolutionTAT,

		FeatMerchantAgeDays: merchantAgeDays(registeredOn, processedAt),
		FeatReturnRate:      snap.UndeliveredOrders / flooredDenominator(snap.OrderCount),
		FeatMarginRatio:     snap.MarginAmount / flooredDenominator(snap.BillingAmount),

		FeatAvgLoyaltyScore:   0,
		FeatAvgChurnRate:      0,
		FeatLoyaltyScoreDelta: 0,
		FeatHistoryMonths:     0,
	}

	if hist != nil {
		v[FeatAvgLoyaltyScore] = hist.AvgLoyaltyScore
		v[FeatAvgChurnRate] = hist.AvgChurnRate
		v[FeatLoyaltyScoreDelta] = hist.LoyaltyScoreDelta
		v[FeatHistoryMonths] = float64(hist.HistoryMonths)
	}

	return v
}

func merchantAgeDays(registeredOn *time.Time, processedAt time.Time) float64 {
	if registeredOn == nil {
		return 0
	}
	days := processedAt.Sub(*registeredOn).Hours() / 24
	if days < 0 {
		return 0
	}
	return float64(int64(days))
}

func flooredDenominator(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
