package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type refundRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB, logger *zap.Logger) domainRepo.RefundRepository {
	return &refundRepository{
		db:     db,
		logger: logger,
	}
}

func (r *refundRepository) Create(ctx context.Context, refund *model.Refund) error {
	if err := r.db.WithContext(ctx).Create(refund).Error; err != nil {
		r.logger.Error("Failed to create refund",
			zap.String("payment_id", refund.PaymentID),
			zap.Error(err))
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *refundRepository) GetByID(ctx context.Context, id string) (*model.Refund, error) {
	var refund model.Refund

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&refund).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get refund",
			zap.String("refund_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}

	return &refund, nil
}

func (r *refundRepository) SumInFlightForPayment(ctx context.Context, paymentID string) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Refund{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_id = ? AND status IN (?, ?)",
			paymentID, model.RefundStatusPending, model.RefundStatusProcessed).
		Scan(&total).Error

	if err != nil {
		r.logger.Error("Failed to sum refunds for payment",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return 0, fmt.Errorf("failed to sum refunds: %w", err)
	}

	return total, nil
}

// Settle runs the worker-time re-validation and the processed transition in
// one transaction. The parent payment row is locked for the duration, so two
// concurrent refund jobs against the same payment serialize here and cannot
// both pass the sum check.
func (r *refundRepository) Settle(ctx context.Context, refundID string) (*model.Refund, error) {
	var settled *model.Refund

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refund model.Refund
		if err := tx.Where("id = ?", refundID).First(&refund).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("refund not found")
			}
			return fmt.Errorf("failed to load refund: %w", err)
		}

		if refund.Status != model.RefundStatusPending {
			// Redelivered job; the earlier run already settled it.
			settled = &refund
			return nil
		}

		var payment model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", refund.PaymentID).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("payment not found for refund")
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		if payment.Status != model.PaymentStatusSuccess {
			return apperrors.Conflict("payment is not in a refundable state")
		}

		var total int64
		if err := tx.Model(&model.Refund{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("payment_id = ? AND status IN (?, ?)",
				payment.ID, model.RefundStatusPending, model.RefundStatusProcessed).
			Scan(&total).Error; err != nil {
			return fmt.Errorf("failed to sum refunds: %w", err)
		}

		if total > payment.Amount {
			return apperrors.Conflict("refund total exceeds payment amount")
		}

		now := time.Now()
		if err := tx.Model(&model.Refund{}).
			Where("id = ?", refund.ID).
			Updates(map[string]interface{}{
				"status":       model.RefundStatusProcessed,
				"processed_at": &now,
				"updated_at":   now,
			}).Error; err != nil {
			return fmt.Errorf("failed to mark refund processed: %w", err)
		}

		refund.Status = model.RefundStatusProcessed
		refund.ProcessedAt = &now
		settled = &refund
		return nil
	})

	if err != nil {
		apperrors.LogError(r.logger, err, "Failed to settle refund",
			zap.String("refund_id", refundID))
		return nil, err
	}

	return settled, nil
}
