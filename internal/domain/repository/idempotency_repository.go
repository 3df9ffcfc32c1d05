package repository

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// IdempotencyRepository persists idempotency records.
type IdempotencyRepository interface {
	Get(ctx context.Context, key, merchantID string) (*model.IdempotencyKey, error)

	// Upsert stores a record, overwriting response and expiry on
	// (key, merchant_id) conflict.
	Upsert(ctx context.Context, record *model.IdempotencyKey) error

	Delete(ctx context.Context, key, merchantID string) error
}
