package errors

import (
	"errors"
	"fmt"
)

// Re-export the standard library helpers so callers only import this package.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error extends the basic error interface with a stable gateway error code.
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError is the default Error implementation.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

// Description returns the message without the wrapped cause. This is what
// callers of the public API see; the cause stays in the logs.
func (e *AppError) Description() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates a new application error with a stable code.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// BadRequest reports a validation failure (caller's fault).
func BadRequest(message string) *AppError {
	return NewAppError(ErrBadRequest, message, nil)
}

// NotFound reports a missing entity.
func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

// Conflict reports a state conflict, e.g. a refund exceeding the
// refundable amount or a capture on a non-successful payment.
func Conflict(message string) *AppError {
	return NewAppError(ErrConflict, message, nil)
}

// Wrap wraps an existing error, preserving the code of an AppError cause.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return NewAppError(appErr.Code(), message, err)
	}

	return NewAppError(ErrInternal, message, err)
}
