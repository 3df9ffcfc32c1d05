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

// CreatePaymentInput carries the validated fields of a payment creation.
// CardNumber is consumed for masking only and never persisted.
type CreatePaymentInput struct {
	OrderID     string
	Method      model.PaymentMethod
	CardNumber  string
	CardNetwork string
	VPA         string
}

// PaymentService handles payment business logic. Settlement itself is
// asynchronous: creation writes a pending row and enqueues exactly one
// processing job.
type PaymentService struct {
	orders   domainRepo.OrderRepository
	payments domainRepo.PaymentRepository
	queue    queue.Enqueuer
	logger   *zap.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	orders domainRepo.OrderRepository,
	payments domainRepo.PaymentRepository,
	paymentQueue queue.Enqueuer,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		payments: payments,
		queue:    paymentQueue,
		logger:   logger,
	}
}

// CreatePayment creates a pending payment against an order and schedules
// its settlement job. The caller gets the pending row back immediately; the
// terminal outcome arrives later via webhook or polling.
func (s *PaymentService) CreatePayment(ctx context.Context, merchantID string, input CreatePaymentInput) (*model.Payment, error) {
	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load order")
	}
	if order == nil || order.MerchantID != merchantID {
		return nil, apperrors.NotFound("order not found")
	}

	payment := &model.Payment{
		ID:         model.NewID("pay"),
		OrderID:    order.ID,
		MerchantID: merchantID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Method:     input.Method,
		Status:     model.PaymentStatusPending,
	}

	switch input.Method {
	case model.PaymentMethodCard:
		if len(input.CardNumber) < 4 {
			return nil, apperrors.BadRequest("card number is required for card payments")
		}
		last4 := input.CardNumber[len(input.CardNumber)-4:]
		payment.CardLast4 = &last4
		if input.CardNetwork != "" {
			network := input.CardNetwork
			payment.CardNetwork = &network
		}
	case model.PaymentMethodUPI:
		if input.VPA == "" {
			return nil, apperrors.BadRequest("vpa is required for upi payments")
		}
		vpa := input.VPA
		payment.VPA = &vpa
	default:
		return nil, apperrors.BadRequest("method must be card or upi")
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.Wrap(err, "failed to create payment")
	}

	// Exactly one processing job per payment, enqueued at creation time.
	jobID, err := s.queue.Enqueue(ctx, jobs.TypeProcessPayment, jobs.PaymentJob{PaymentID: payment.ID}, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to enqueue payment job")
	}

	s.logger.Info("payment created",
		zap.String("payment_id", payment.ID),
		zap.String("order_id", order.ID),
		zap.String("merchant_id", merchantID),
		zap.String("method", string(payment.Method)),
		zap.String("job_id", jobID))

	return payment, nil
}

// GetPayment loads a payment scoped to the requesting merchant.
func (s *PaymentService) GetPayment(ctx context.Context, merchantID, paymentID string) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load payment")
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperrors.NotFound("payment not found")
	}
	return payment, nil
}

// CapturePayment flags a successful payment as captured. Capture is a
// manual step independent of settlement status transitions.
func (s *PaymentService) CapturePayment(ctx context.Context, merchantID, paymentID string) (*model.Payment, error) {
	payment, err := s.GetPayment(ctx, merchantID, paymentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.payments.SetCaptured(ctx, payment.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to capture payment")
	}
	if !ok {
		return nil, apperrors.Conflict("only successful payments can be captured")
	}

	payment.Captured = true
	s.logger.Info("payment captured",
		zap.String("payment_id", payment.ID),
		zap.String("merchant_id", merchantID))

	return payment, nil
}
