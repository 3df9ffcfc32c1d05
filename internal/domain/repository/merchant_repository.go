package repository

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// MerchantRepository persists merchant accounts.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *model.Merchant) error
	GetByID(ctx context.Context, id string) (*model.Merchant, error)
	Count(ctx context.Context) (int64, error)
}
