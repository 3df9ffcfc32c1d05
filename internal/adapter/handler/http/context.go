package http

import (
	"github.com/labstack/echo/v4"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
)

// MerchantHeader scopes a request to a merchant account. Verifying the
// caller actually owns the account is the auth layer's concern, which
// lives outside this service.
const MerchantHeader = "X-Merchant-Id"

// IdempotencyHeader is the caller-supplied replay token on payment
// creation.
const IdempotencyHeader = "Idempotency-Key"

func merchantID(c echo.Context) (string, error) {
	id := c.Request().Header.Get(MerchantHeader)
	if id == "" {
		return "", apperrors.BadRequest("missing " + MerchantHeader + " header")
	}
	return id, nil
}
