package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type webhookLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookLogRepository creates a new webhook log repository
func NewWebhookLogRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookLogRepository {
	return &webhookLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *webhookLogRepository) Create(ctx context.Context, log *model.WebhookLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		r.logger.Error("Failed to create webhook log",
			zap.String("merchant_id", log.MerchantID),
			zap.String("event", log.Event),
			zap.Error(err))
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

func (r *webhookLogRepository) GetByID(ctx context.Context, id string) (*model.WebhookLog, error) {
	var log model.WebhookLog

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook log",
			zap.String("webhook_log_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook log: %w", err)
	}

	return &log, nil
}

func (r *webhookLogRepository) List(ctx context.Context, filter domainRepo.WebhookLogFilter) ([]*model.WebhookLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.WebhookLog{})

	if filter.MerchantID != "" {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count webhook logs: %w", err)
	}

	var logs []*model.WebhookLog
	listQuery := query.Order("created_at DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery = listQuery.Offset(filter.Offset)
	}

	if err := listQuery.Find(&logs).Error; err != nil {
		r.logger.Error("Failed to list webhook logs", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list webhook logs: %w", err)
	}

	return logs, total, nil
}

func (r *webhookLogRepository) RecordSuccess(ctx context.Context, id string, attempts int, responseCode int, responseBody string, attemptedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          model.WebhookStatusSuccess,
			"attempts":        attempts,
			"last_attempt_at": &attemptedAt,
			"next_retry_at":   nil,
			"response_code":   &responseCode,
			"response_body":   &responseBody,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to record webhook success",
			zap.String("webhook_log_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record webhook success: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook log not found: %s", id)
	}

	return nil
}

func (r *webhookLogRepository) RecordFailure(ctx context.Context, id string, attempts int, status model.WebhookStatus, responseCode int, responseBody string, attemptedAt time.Time, nextRetryAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"attempts":        attempts,
			"last_attempt_at": &attemptedAt,
			"next_retry_at":   nextRetryAt,
			"response_code":   &responseCode,
			"response_body":   &responseBody,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to record webhook failure",
			zap.String("webhook_log_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record webhook failure: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook log not found: %s", id)
	}

	return nil
}

func (r *webhookLogRepository) ResetForRetry(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.WebhookStatusPending,
			"attempts":      0,
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to reset webhook log for retry",
			zap.String("webhook_log_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to reset webhook log: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook log not found: %s", id)
	}

	return nil
}
