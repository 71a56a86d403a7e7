package api

import (
	"errors"
	"time"

	"JewarRates/internal/domain/models"
	domsvc "JewarRates/internal/domain/service"
	"JewarRates/internal/service/metrics"
	"JewarRates/internal/service/ratecalc"
	xhttp "JewarRates/pkg/http"
	xlogger "JewarRates/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RatesEchoHandler serves the rate table and the tools built on it.
type RatesEchoHandler struct {
	logger  *xlogger.Logger
	svc     domsvc.RateService
	metrics *metrics.APIMetrics
	auth    echo.MiddlewareFunc
}

// NewRatesEchoHandler wires the handler. auth guards refresh and config; nil
// leaves them open.
func NewRatesEchoHandler(logger *xlogger.Logger, svc domsvc.RateService, m *metrics.APIMetrics, auth echo.MiddlewareFunc) *RatesEchoHandler {
	return &RatesEchoHandler{logger: logger, svc: svc, metrics: m, auth: auth}
}

func (h *RatesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/rates")
	g.GET("", h.Rates)
	g.POST("/estimate", h.Estimate)
	g.GET("/market-status", h.MarketStatus)

	var protected []echo.MiddlewareFunc
	if h.auth != nil {
		protected = append(protected, h.auth)
	}
	g.POST("/refresh", h.Refresh, protected...)
	g.GET("/config", h.Config, protected...)
}

// Rates returns the latest published table without touching upstream.
func (h *RatesEchoHandler) Rates(c echo.Context) error {
	defer h.metrics.Observe("rates", time.Now(), nil)

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=30")
	return xhttp.SuccessResponse(c, h.svc.CurrentRates())
}

func (h *RatesEchoHandler) Refresh(c echo.Context) error {
	defer h.metrics.Observe("refresh", time.Now(), nil)
	h.metrics.Refresh()

	table := h.svc.RefreshRates(c.Request().Context())
	h.logger.Info("rates refreshed on demand",
		xlogger.String("source", string(table.Source)),
		xlogger.String("ip", c.RealIP()),
	)
	return xhttp.MessageResponse(c, "Rates refreshed successfully", table)
}

func (h *RatesEchoHandler) Estimate(c echo.Context) error {
	failed := false
	defer h.metrics.Observe("estimate", time.Now(), &failed)

	req := &models.EstimateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		failed = true
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Estimate(*req)
	if err != nil {
		failed = true
		if errors.Is(err, ratecalc.ErrUnknownPurity) {
			return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("purity", err.Error()).WithError(err))
		}
		h.logger.Error("estimate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.metrics.Estimate(string(res.Metal), string(res.Purity))
	return xhttp.SuccessResponse(c, res)
}

func (h *RatesEchoHandler) MarketStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.MarketStatus())
}

func (h *RatesEchoHandler) Config(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.Settings())
}
