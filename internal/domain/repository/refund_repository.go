package repository

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// RefundRepository persists refunds.
type RefundRepository interface {
	Create(ctx context.Context, refund *model.Refund) error
	GetByID(ctx context.Context, id string) (*model.Refund, error)

	// SumInFlightForPayment returns the total amount of refunds in
	// {pending, processed} for a payment. Advisory (unlocked) read used by
	// creation-time validation.
	SumInFlightForPayment(ctx context.Context, paymentID string) (int64, error)

	// Settle re-validates and processes a pending refund in one
	// transaction holding a row lock on the parent payment: the payment
	// must still be in success status and the in-flight refund total must
	// not exceed the payment amount. On success the refund is marked
	// processed with processed_at set, and the updated refund is returned.
	Settle(ctx context.Context, refundID string) (*model.Refund, error)
}
