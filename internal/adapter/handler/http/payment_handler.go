package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orbitpay/gateway/internal/domain/model"
	"github.com/orbitpay/gateway/internal/usecase"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments    *usecase.PaymentService
	idempotency *usecase.IdempotencyService
	logger      *zap.Logger
}

func NewPaymentHandler(
	payments *usecase.PaymentService,
	idempotency *usecase.IdempotencyService,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		payments:    payments,
		idempotency: idempotency,
		logger:      logger,
	}
}

type createPaymentRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	Method      string `json:"method" validate:"required,oneof=card upi"`
	CardNumber  string `json:"card_number" validate:"omitempty,min=12,max=19,numeric"`
	CardNetwork string `json:"card_network" validate:"omitempty,max=20"`
	VPA         string `json:"vpa" validate:"omitempty,contains=@"`
}

// CreatePayment accepts a payment and returns the pending acknowledgment.
// When the caller supplies an Idempotency-Key, a cache hit short-circuits
// all business logic and replays the original response byte for byte.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	idemKey := c.Request().Header.Get(IdempotencyHeader)
	if idemKey != "" {
		if cached := h.idempotency.Check(c.Request().Context(), idemKey, mid); cached != nil {
			h.logger.Info("idempotent replay",
				zap.String("merchant_id", mid))
			return c.JSONBlob(cached.StatusCode, cached.Body)
		}
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.WriteHTTP(c, apperrors.BadRequest("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	payment, err := h.payments.CreatePayment(c.Request().Context(), mid, usecase.CreatePaymentInput{
		OrderID:     req.OrderID,
		Method:      model.PaymentMethod(req.Method),
		CardNumber:  req.CardNumber,
		CardNetwork: req.CardNetwork,
		VPA:         req.VPA,
	})
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	// Serialize once so the cached bytes and the response bytes are the
	// same document; a later replay returns them verbatim.
	raw, err := json.Marshal(payment)
	if err != nil {
		return apperrors.WriteHTTP(c, apperrors.Wrap(err, "failed to serialize payment"))
	}

	if idemKey != "" {
		h.idempotency.Store(c.Request().Context(), idemKey, mid, http.StatusCreated, raw)
	}

	return c.JSONBlob(http.StatusCreated, raw)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	payment, err := h.payments.GetPayment(c.Request().Context(), mid, c.Param("id"))
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) CapturePayment(c echo.Context) error {
	mid, err := merchantID(c)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	payment, err := h.payments.CapturePayment(c.Request().Context(), mid, c.Param("id"))
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}
