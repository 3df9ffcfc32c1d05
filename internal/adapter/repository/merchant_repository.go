package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type merchantRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB, logger *zap.Logger) domainRepo.MerchantRepository {
	return &merchantRepository{
		db:     db,
		logger: logger,
	}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *model.Merchant) error {
	if err := r.db.WithContext(ctx).Create(merchant).Error; err != nil {
		r.logger.Error("Failed to create merchant",
			zap.String("merchant_id", merchant.ID),
			zap.Error(err))
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

func (r *merchantRepository) GetByID(ctx context.Context, id string) (*model.Merchant, error) {
	var merchant model.Merchant

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&merchant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get merchant",
			zap.String("merchant_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	return &merchant, nil
}

func (r *merchantRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Merchant{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count merchants: %w", err)
	}
	return count, nil
}
