package middleware

import (
	"net/http"

	applogger "JewarRates/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request keyed by client may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the client IP has spent its budget.
// Paths in skip (exact match on the route template) are never limited.
func RateLimit(a Allower, l *applogger.Logger, skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipped[c.Path()]; ok {
				return next(c)
			}
			ip := c.RealIP()
			if !a.Allow(ip) {
				l.Debug("rate limited", applogger.String("ip", ip), applogger.String("path", c.Path()))
				return reject(c, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			}
			return next(c)
		}
	}
}
