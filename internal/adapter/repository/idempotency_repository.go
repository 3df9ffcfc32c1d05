package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB, logger *zap.Logger) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *idempotencyRepository) Get(ctx context.Context, key, merchantID string) (*model.IdempotencyKey, error) {
	var record model.IdempotencyKey

	err := r.db.WithContext(ctx).
		Where("key = ? AND merchant_id = ?", key, merchantID).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get idempotency record",
			zap.String("merchant_id", merchantID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	return &record, nil
}

func (r *idempotencyRepository) Upsert(ctx context.Context, record *model.IdempotencyKey) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "merchant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status_code", "response", "expires_at", "updated_at"}),
		}).
		Create(record).Error

	if err != nil {
		r.logger.Error("Failed to upsert idempotency record",
			zap.String("merchant_id", record.MerchantID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert idempotency record: %w", err)
	}

	return nil
}

func (r *idempotencyRepository) Delete(ctx context.Context, key, merchantID string) error {
	err := r.db.WithContext(ctx).
		Where("key = ? AND merchant_id = ?", key, merchantID).
		Delete(&model.IdempotencyKey{}).Error

	if err != nil {
		r.logger.Error("Failed to delete idempotency record",
			zap.String("merchant_id", merchantID),
			zap.Error(err))
		return fmt.Errorf("failed to delete idempotency record: %w", err)
	}

	return nil
}
