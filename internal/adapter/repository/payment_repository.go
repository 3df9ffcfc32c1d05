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

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("order_id", payment.OrderID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment",
			zap.String("payment_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// MarkTerminal transitions a pending payment to its terminal status. The
// WHERE status = 'pending' guard makes the transition single-shot under job
// redelivery.
func (r *paymentRepository) MarkTerminal(ctx context.Context, id string, status model.PaymentStatus, errorCode, errorDescription *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":            status,
			"error_code":        errorCode,
			"error_description": errorDescription,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark payment terminal",
			zap.String("payment_id", id),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to mark payment terminal: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) SetCaptured(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusSuccess).
		Updates(map[string]interface{}{
			"captured":   true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to set payment captured",
			zap.String("payment_id", id),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to set payment captured: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
