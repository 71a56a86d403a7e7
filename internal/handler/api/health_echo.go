package api

import (
	"net/http"
	"runtime"
	"time"

	"JewarRates/internal/domain/models"
	domsvc "JewarRates/internal/domain/service"
	"JewarRates/internal/usecase"
	pkgcache "JewarRates/pkg/cache"
	xhttp "JewarRates/pkg/http"
	xlogger "JewarRates/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CacheStats is satisfied by the rate store.
type CacheStats interface {
	Stats() (pkgcache.Stats, bool)
}

type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

type HealthEchoHandler struct {
	logger  *xlogger.Logger
	svc     domsvc.RateService
	cache   CacheStats
	info    ServiceInfo
	started time.Time
}

func NewHealthEchoHandler(logger *xlogger.Logger, svc domsvc.RateService, cache CacheStats, info ServiceInfo) *HealthEchoHandler {
	return &HealthEchoHandler{logger: logger, svc: svc, cache: cache, info: info, started: time.Now()}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/api/health", h.Health)
	e.GET("/api/health/detailed", h.Detailed)
}

func (h *HealthEchoHandler) Root(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"name":    h.info.Name,
		"version": h.info.Version,
		"endpoints": map[string]string{
			"rates":        "GET /api/rates",
			"refresh":      "POST /api/rates/refresh",
			"estimate":     "POST /api/rates/estimate",
			"marketStatus": "GET /api/rates/market-status",
			"config":       "GET /api/rates/config",
			"health":       "GET /api/health",
			"detailed":     "GET /api/health/detailed",
			"metrics":      "GET /metrics",
		},
	})
}

// Health is the cheap liveness probe; it never calls upstream.
func (h *HealthEchoHandler) Health(c echo.Context) error {
	current := h.svc.CurrentRates()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      models.Healthy,
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.info.Environment,
		"version":     h.info.Version,
		"ratesSource": current.Source,
		"lastUpdated": current.LastUpdated,
	})
}

// Detailed probes every source live; use Health for liveness checks.
func (h *HealthEchoHandler) Detailed(c echo.Context) error {
	report := h.svc.CheckHealth(c.Request().Context())
	overall := usecase.Overall(report)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	body := map[string]interface{}{
		"status":      overall,
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.info.Environment,
		"version":     h.info.Version,
		"apis":        report,
		"updater":     h.svc.Status(),
		"market":      h.svc.MarketStatus(),
		"memory": map[string]uint64{
			"allocBytes": mem.Alloc,
			"sysBytes":   mem.Sys,
		},
		"goroutines": runtime.NumGoroutine(),
	}
	if h.cache != nil {
		if st, ok := h.cache.Stats(); ok {
			body["cache"] = st
		}
	}

	if overall != models.Healthy {
		h.logger.Warn("no source healthy", xlogger.Any("apis", report))
		return c.JSON(http.StatusServiceUnavailable, xhttp.APIResponse{
			Success:   false,
			Error:     "No rate source is healthy",
			Data:      body,
			Timestamp: time.Now(),
		})
	}
	return xhttp.SuccessResponse(c, body)
}
