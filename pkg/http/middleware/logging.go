package middleware

import (
	"time"

	applogger "JewarRates/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests. Health and metrics probes go to debug.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("ip", c.RealIP()),
				applogger.Int("status", res.Status),
				applogger.Duration("latency_ms", time.Since(start)),
			}
			switch path := c.Path(); {
			case res.Status >= 500:
				l.Warn("http request", fields...)
			case path == "/metrics" || path == "/api/health":
				l.Debug("http request", fields...)
			default:
				l.Info("http request", fields...)
			}

			// already rendered by c.Error
			return nil
		}
	}
}
