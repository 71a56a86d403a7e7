package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// reject writes the failed response envelope. It mirrors pkg/http.ErrorResponse,
// which cannot be imported from here.
func reject(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success":   false,
		"error":     message,
		"timestamp": time.Now(),
	})
}
