package http

import (
	"github.com/go-playground/validator/v10"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the shared request validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, err.Error(), err)
	}
	return nil
}
