package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orbitpay/gateway/internal/usecase"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

type RefundHandler struct {
	refunds *usecase.RefundService
	logger  *zap.Logger
}

func NewRefundHandler(refunds *usecase.RefundService, logger *zap.Logger) *RefundHandler {
	return &RefundHandler{
		refunds: refunds,
		logger:  logger,
	}
}

type createRefundRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"omitempty,max=255"`
}

func (h *RefundHandler) CreateRefund(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	var req createRefundRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.WriteHTTP(c, apperrors.BadRequest("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	refund, err := h.refunds.CreateRefund(c.Request().Context(), mid, usecase.CreateRefundInput{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusCreated, refund)
}

func (h *RefundHandler) GetRefund(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	refund, err := h.refunds.GetRefund(c.Request().Context(), mid, c.Param("id"))
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, refund)
}
