package usecase

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/jobs"
	"github.com/orbitpay/gateway/internal/queue"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// CreateRefundInput carries the validated fields of a refund creation.
type CreateRefundInput struct {
	PaymentID string
	Amount    int64
	Reason    string
}

// RefundService handles refund business logic. Creation validates
// refundability synchronously; the state transition happens in the refund
// worker, which re-validates under a row lock.
type RefundService struct {
	payments domainRepo.PaymentRepository
	refunds  domainRepo.RefundRepository
	queue    queue.Enqueuer
	logger   *zap.Logger
}

// NewRefundService creates a new refund service instance
func NewRefundService(
	payments domainRepo.PaymentRepository,
	refunds domainRepo.RefundRepository,
	refundQueue queue.Enqueuer,
	logger *zap.Logger,
) *RefundService {
	return &RefundService{
		payments: payments,
		refunds:  refunds,
		queue:    refundQueue,
		logger:   logger,
	}
}

// CreateRefund creates a pending refund and schedules its processing job.
// Rejected synchronously when the payment is not successful or the amount
// exceeds what remains refundable.
func (s *RefundService) CreateRefund(ctx context.Context, merchantID string, input CreateRefundInput) (*model.Refund, error) {
	if input.Amount <= 0 {
		return nil, apperrors.BadRequest("amount must be a positive integer in the smallest currency unit")
	}

	payment, err := s.payments.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load payment")
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperrors.NotFound("payment not found")
	}

	if payment.Status != model.PaymentStatusSuccess {
		return nil, apperrors.Conflict("only successful payments can be refunded")
	}

	refunded, err := s.refunds.SumInFlightForPayment(ctx, payment.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check refunded amount")
	}
	if input.Amount > payment.Amount-refunded {
		return nil, apperrors.Conflict("refund amount exceeds refundable amount")
	}

	refund := &model.Refund{
		ID:         model.NewID("rfnd"),
		PaymentID:  payment.ID,
		MerchantID: merchantID,
		Amount:     input.Amount,
		Reason:     input.Reason,
		Status:     model.RefundStatusPending,
	}

	if err := s.refunds.Create(ctx, refund); err != nil {
		return nil, apperrors.Wrap(err, "failed to create refund")
	}

	jobID, err := s.queue.Enqueue(ctx, jobs.TypeProcessRefund, jobs.RefundJob{RefundID: refund.ID}, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to enqueue refund job")
	}

	s.logger.Info("refund created",
		zap.String("refund_id", refund.ID),
		zap.String("payment_id", payment.ID),
		zap.String("merchant_id", merchantID),
		zap.Int64("amount", refund.Amount),
		zap.String("job_id", jobID))

	return refund, nil
}

// GetRefund loads a refund scoped to the requesting merchant.
func (s *RefundService) GetRefund(ctx context.Context, merchantID, refundID string) (*model.Refund, error) {
	refund, err := s.refunds.GetByID(ctx, refundID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load refund")
	}
	if refund == nil || refund.MerchantID != merchantID {
		return nil, apperrors.NotFound("refund not found")
	}
	return refund, nil
}
