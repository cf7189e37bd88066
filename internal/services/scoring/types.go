package scoring

import (
	"math"
	"time"

	"loyaltyengine/internal/platform"
)

// Result is one platform's scoring outcome. Values carry full precision;
// rounding happens only at the response boundary so aggregation never
// compounds rounding error.
type Result struct {
	MerchantID    uint
	Email         string
	Platform      platform.Platform
	LoyaltyScore  float64
	ChurnRate     float64
	Multiplier    float64
	WeightedScore float64
	FromDate      time.Time
	TillDate      time.Time
}

// GrandResult is the multi-platform outcome: every platform that had
// data, plus the aggregate score and badge.
type GrandResult struct {
	MerchantID uint
	Email      string
	Results    []Result
	GrandScore float64
	GrandBadge *string
}

// Round2 rounds to two decimal places. Applied to response fields and
// to the grand score, never to intermediate values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthStart is the first day of the month containing t.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
