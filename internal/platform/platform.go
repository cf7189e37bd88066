// Package platform defines the closed set of operations platforms the
// engine scores merchants on, together with the table and column
// identifiers each platform owns. SQL identifiers are only ever taken
// from this package, never from request input.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

type Platform string

const (
	Shipway     Platform = "shipway"
	Unicommerce Platform = "unicommerce"
	Convertway  Platform = "convertway"
)

var ErrInvalid = errors.New("invalid platform")

// All returns the supported platforms in their canonical order.
func All() []Platform {
	return []Platform{Shipway, Unicommerce, Convertway}
}

// Parse maps a request-supplied platform name onto the closed set.
func Parse(name string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(name))) {
	case Shipway:
		return Shipway, nil
	case Unicommerce:
		return Unicommerce, nil
	case Convertway:
		return Convertway, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalid, name)
	}
}

func (p Platform) String() string { return string(p) }

// DataTable is the transactional metrics table for the platform.
func (p Platform) DataTable() string { return "data_" + string(p) }

// LoyaltyColumn is the per-platform loyalty score column on
// merchants_scores and merchants_scores_history.
func (p Platform) LoyaltyColumn() string { return "loyalty_score_" + string(p) }

// ChurnColumn is the per-platform churn rate column.
func (p Platform) ChurnColumn() string { return "churn_rate_" + string(p) }

// SyncColumn records the till_date the current score was computed from.
func (p Platform) SyncColumn() string { return "sync_till_" + string(p) }

// EnabledColumn is the merchants table flag for the platform.
func (p Platform) EnabledColumn() string { return "is_" + string(p) }

// MultiplierColumn is the merchants table weighting column.
func (p Platform) MultiplierColumn() string { return "multiplier_" + string(p) }

// RegisterColumn is the merchants table registration date column.
func (p Platform) RegisterColumn() string { return "register_" + string(p) }
