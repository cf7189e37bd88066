package repositories

import (
	"context"

	"loyaltyengine/internal/models"
	"loyaltyengine/internal/repositories/cache"

	"gorm.io/gorm"
)

type MerchantRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Merchant, error)
	GetByID(ctx context.Context, merchantID uint) (*models.Merchant, error)
}

type merchantRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewMerchantRepository(db *gorm.DB, cacheSvc *cache.CacheService) MerchantRepository {
	return &merchantRepository{db: db, cache: cacheSvc}
}

// GetByEmail resolves a merchant by email. Merchant rows are read-only
// to this service, so a TTL cache is safe.
func (r *merchantRepository) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	if r.cache != nil {
		if m, err := r.cache.GetMerchant(ctx, email); err == nil && m != nil {
			return m, nil
		}
	}

	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error; err != nil {
		return nil, err
	}

	if r.cache != nil {
		// Cache failures never fail the read path.
		_ = r.cache.CacheMerchant(ctx, &merchant)
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByID(ctx context.Context, merchantID uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, "merchant_id = ?", merchantID).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}
