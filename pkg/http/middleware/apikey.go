package middleware

import (
	"crypto/subtle"
	"net/http"

	applogger "JewarRates/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	HeaderAPIKey = "x-api-key"
	QueryAPIKey  = "api_key"
)

// APIKey guards a route group with a shared secret read from the x-api-key
// header or the api_key query parameter. An empty secret disables the check.
func APIKey(secret string, l *applogger.Logger) echo.MiddlewareFunc {
	if secret == "" {
		l.Warn("API secret not configured, protected routes are open")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}

			key := c.Request().Header.Get(HeaderAPIKey)
			if key == "" {
				key = c.QueryParam(QueryAPIKey)
			}
			if key == "" {
				return reject(c, http.StatusUnauthorized, "API key required")
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				l.Warn("invalid API key", applogger.String("ip", c.RealIP()), applogger.String("path", c.Path()))
				return reject(c, http.StatusForbidden, "Invalid API key")
			}
			return next(c)
		}
	}
}
