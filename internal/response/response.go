// Package response provides helpers for consistent API responses.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned to the client.
const (
	CodeNoSession         = "NO_SESSION"
	CodeNameRequired      = "NAME_REQUIRED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeStorage           = "STORAGE_ERROR"
)

// Success sends a successful JSON response with the given data.
// The response will always include "error": false.
func Success(c echo.Context, data map[string]interface{}) error {
	resp := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		resp[k] = v
	}
	resp["error"] = false

	return c.JSON(http.StatusOK, resp)
}

// Redirect sends a success response telling the client which page to load next.
func Redirect(c echo.Context, to string, data map[string]interface{}) error {
	resp := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		resp[k] = v
	}
	resp["redirect"] = to

	return Success(c, resp)
}

// Error sends an error JSON response with the given status code and message.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"message": message,
	})
}

// ErrorWithCode sends an error response with a specific error code.
func ErrorWithCode(c echo.Context, statusCode int, code string, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"code":    code,
		"message": message,
	})
}
