package scoring

import "context"

// Badge tiers, evaluated top-down; first match wins.
const (
	BadgePlatinum = "platinum"
	BadgeGold     = "gold"
	BadgeSilver   = "silver"
)

// Aggregator combines per-platform results into the grand score and
// badge and persists them onto the merchant's score record.
type Aggregator struct {
	scores ScoreStore
}

func NewAggregator(scores ScoreStore) *Aggregator {
	return &Aggregator{scores: scores}
}

// Aggregate averages the weighted scores of the platforms that produced
// data (not all configured platforms), assigns the badge, and writes
// only the grand columns of the score record.
func (a *Aggregator) Aggregate(ctx context.Context, merchantID uint, results []Result) (float64, *string, error) {
	if len(results) == 0 {
		return 0, nil, ErrNoEligiblePlatforms
	}

	total := 0.0
	for _, r := range results {
		total += r.WeightedScore
	}
	grand := Round2(total / float64(len(results)))
	badge := BadgeFor(grand)

	if err := a.scores.UpsertGrandScore(ctx, merchantID, grand, badge); err != nil {
		return 0, nil, err
	}
	return grand, badge, nil
}

// BadgeFor maps a grand score to its tier; nil below the silver floor.
func BadgeFor(score float64) *string {
	var badge string
	switch {
	case score >= 50:
		badge = BadgePlatinum
	case score >= 20:
		badge = BadgeGold
	case score >= 10:
		badge = BadgeSilver
	default:
		return nil
	}
	return &badge
}
