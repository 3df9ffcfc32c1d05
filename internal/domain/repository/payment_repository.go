package repository

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// PaymentRepository persists payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)

	// MarkTerminal moves a pending payment to success or failed. The update
	// is conditional on the row still being pending, so a redelivered job
	// cannot apply a second outcome; it returns false when no transition
	// happened.
	MarkTerminal(ctx context.Context, id string, status model.PaymentStatus, errorCode, errorDescription *string) (bool, error)

	// SetCaptured flags a successful payment as captured. Returns false
	// when the payment is not in success status.
	SetCaptured(ctx context.Context, id string) (bool, error)
}
