package repositories

import (
	"context"

	"loyaltyengine/internal/models"
	"loyaltyengine/internal/platform"

	"gorm.io/gorm"
)

type SnapshotRepository interface {
	Latest(ctx context.Context, merchantID uint, p platform.Platform) (*models.PlatformSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Latest returns the newest snapshot by till_date for the merchant on
// the platform, or gorm.ErrRecordNotFound if the platform has no data.
func (r *snapshotRepository) Latest(ctx context.Context, merchantID uint, p platform.Platform) (*models.PlatformSnapshot, error) {
	var snap models.PlatformSnapshot
	err := r.db.WithContext(ctx).
		Table(p.DataTable()).
		Where("merchant_id = ?", merchantID).
		Order("till_date DESC").
		Take(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
