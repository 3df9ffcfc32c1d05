package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesAppErrorCode(t *testing.T) {
	inner := NotFound("payment not found")
	wrapped := Wrap(inner, "failed to load payment")

	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrNotFound, appErr.Code())
	assert.Equal(t, "failed to load payment", appErr.Description())
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapPlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(New("connection refused"), "failed to load payment")

	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrInternal, appErr.Code())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
}

func TestDescriptionExcludesCause(t *testing.T) {
	err := NewAppError(ErrInternal, "failed to enqueue job", New("redis down"))

	assert.Equal(t, "failed to enqueue job", err.Description())
	assert.Equal(t, "failed to enqueue job: redis down", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrBadRequest, 400},
		{ErrNotFound, 404},
		{ErrConflict, 409},
		{ErrInternal, 500},
		{ErrTimeout, 504},
		{"SOMETHING_ELSE", 500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), tt.code)
	}
}
