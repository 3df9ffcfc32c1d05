package usecase

import (
	"context"

	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// CreateOrderInput carries the validated fields of an order creation.
type CreateOrderInput struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    model.JSONB
}

// OrderService handles order business logic.
type OrderService struct {
	orders domainRepo.OrderRepository
	logger *zap.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(orders domainRepo.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		logger: logger,
	}
}

// CreateOrder creates an order in created status.
func (s *OrderService) CreateOrder(ctx context.Context, merchantID string, input CreateOrderInput) (*model.Order, error) {
	if input.Amount <= 0 {
		return nil, apperrors.BadRequest("amount must be a positive integer in the smallest currency unit")
	}
	if input.Currency == "" {
		input.Currency = "INR"
	}

	order := &model.Order{
		ID:         model.NewID("order"),
		MerchantID: merchantID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		Receipt:    input.Receipt,
		Status:     model.OrderStatusCreated,
		Notes:      input.Notes,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(err, "failed to create order")
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("merchant_id", merchantID),
		zap.Int64("amount", order.Amount))

	return order, nil
}

// GetOrder loads an order scoped to the requesting merchant.
func (s *OrderService) GetOrder(ctx context.Context, merchantID, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load order")
	}
	if order == nil || order.MerchantID != merchantID {
		return nil, apperrors.NotFound("order not found")
	}
	return order, nil
}
