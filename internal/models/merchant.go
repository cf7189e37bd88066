package models

import (
	"time"

	"loyaltyengine/internal/platform"
)

// Merchant is owned by the external store; the scoring core only reads it.
type Merchant struct {
	MerchantID uint   `gorm:"primarykey;column:merchant_id" json:"merchant_id"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`

	IsShipway     bool `gorm:"column:is_shipway" json:"is_shipway"`
	IsUnicommerce bool `gorm:"column:is_unicommerce" json:"is_unicommerce"`
	IsConvertway  bool `gorm:"column:is_convertway" json:"is_convertway"`

	MultiplierShipway     *float64 `gorm:"column:multiplier_shipway" json:"multiplier_shipway"`
	MultiplierUnicommerce *float64 `gorm:"column:multiplier_unicommerce" json:"multiplier_unicommerce"`
	MultiplierConvertway  *float64 `gorm:"column:multiplier_convertway" json:"multiplier_convertway"`

	RegisterShipway     *time.Time `gorm:"column:register_shipway" json:"register_shipway"`
	RegisterUnicommerce *time.Time `gorm:"column:register_unicommerce" json:"register_unicommerce"`
	RegisterConvertway  *time.Time `gorm:"column:register_convertway" json:"register_convertway"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Merchant) TableName() string { return "merchants" }

// EnabledOn reports whether the merchant is integrated with the platform.
func (m *Merchant) EnabledOn(p platform.Platform) bool {
	switch p {
	case platform.Shipway:
		return m.IsShipway
	case platform.Unicommerce:
		return m.IsUnicommerce
	case platform.Convertway:
		return m.IsConvertway
	}
	return false
}

// Multiplier returns the per-platform score weighting. A missing
// multiplier means unweighted, never zero.
func (m *Merchant) Multiplier(p platform.Platform) float64 {
	var v *float64
	switch p {
	case platform.Shipway:
		v = m.MultiplierShipway
	case platform.Unicommerce:
		v = m.MultiplierUnicommerce
	case platform.Convertway:
		v = m.MultiplierConvertway
	}
	if v == nil || *v <= 0 {
		return 1
	}
	return *v
}

// RegisteredOn returns the platform-specific registration date, if any.
func (m *Merchant) RegisteredOn(p platform.Platform) *time.Time {
	switch p {
	case platform.Shipway:
		return m.RegisterShipway
	case platform.Unicommerce:
		return m.RegisterUnicommerce
	case platform.Convertway:
		return m.RegisterConvertway
	}
	return nil
}
