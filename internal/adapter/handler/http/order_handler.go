package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orbitpay/gateway/internal/domain/model"
	"github.com/orbitpay/gateway/internal/usecase"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *usecase.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders *usecase.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   int64       `json:"amount" validate:"required,gt=0"`
	Currency string      `json:"currency" validate:"omitempty,len=3"`
	Receipt  string      `json:"receipt" validate:"omitempty,max=255"`
	Notes    model.JSONB `json:"notes,omitempty"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.WriteHTTP(c, apperrors.BadRequest("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), mid, usecase.CreateOrderInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	order, err := h.orders.GetOrder(c.Request().Context(), mid, c.Param("id"))
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
