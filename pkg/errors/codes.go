package errors

// Stable error codes surfaced on the public API.
const (
	ErrInternal   = "GATEWAY_ERROR"
	ErrNotFound   = "NOT_FOUND_ERROR"
	ErrBadRequest = "BAD_REQUEST_ERROR"
	ErrConflict   = "CONFLICT_ERROR"
	ErrTimeout    = "TIMEOUT_ERROR"
)

var codeToHTTPStatus = map[string]int{
	ErrInternal:   500,
	ErrNotFound:   404,
	ErrBadRequest: 400,
	ErrConflict:   409,
	ErrTimeout:    504,
}

// HTTPStatus maps a gateway error code to an HTTP status code.
func HTTPStatus(code string) int {
	if status, ok := codeToHTTPStatus[code]; ok {
		return status
	}
	return 500
}
