package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MalformedAck is the body returned for webhook payloads we could not parse.
// The provider only needs a 200 so it stops retrying.
const MalformedAck = "0"

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Text writes a plain text 200 reply. Every bot endpoint answers this way.
func Text(c echo.Context, body string) error {
	return c.String(http.StatusOK, body)
}

// Ack acknowledges a webhook with an empty body.
func Ack(c echo.Context) error {
	return c.String(http.StatusOK, "")
}

func AckMalformed(c echo.Context) error {
	return c.String(http.StatusOK, MalformedAck)
}

func Ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func ServiceUnavailable(c echo.Context, data any) error {
	return c.JSON(http.StatusServiceUnavailable, SuccessResponse{
		Success: false,
		Data:    data,
	})
}

func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Success: false,
		Error:   "Invalid or missing API key",
	})
}
