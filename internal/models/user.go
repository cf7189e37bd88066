package models

import "time"

// User is a dashboard account (operations staff or a merchant login).
type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'merchant'" json:"role"`
	MerchantID   *uint  `gorm:"column:merchant_id" json:"merchant_id"`
	TokenVersion int    `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
