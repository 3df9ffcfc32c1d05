package repository

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
)

// OrderRepository persists merchant orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
}
