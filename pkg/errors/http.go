package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON error envelope returned by every API endpoint.
type ErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ErrorResponse wraps ErrorBody under the "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteHTTP renders an error as a JSON response on the echo context.
// AppErrors keep their code and description; anything else becomes a 500
// GATEWAY_ERROR without leaking the internal cause.
func WriteHTTP(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return c.JSON(HTTPStatus(appErr.Code()), ErrorResponse{
			Error: ErrorBody{
				Code:        appErr.Code(),
				Description: appErr.Description(),
			},
		})
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return c.JSON(echoErr.Code, ErrorResponse{
			Error: ErrorBody{Code: ErrBadRequest, Description: msg},
		})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorBody{
			Code:        ErrInternal,
			Description: "internal gateway error",
		},
	})
}
