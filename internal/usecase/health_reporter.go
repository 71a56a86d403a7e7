package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	applogger "JewarRates/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	healthyMessage       = "API responding correctly"
	notConfiguredMessage = "API key not provided or disabled"
	defaultProbeTimeout  = 10 * time.Second
)

type probe struct {
	name  string
	fetch func(ctx context.Context) error
}

// HealthReporter probes every source live and classifies the outcome.
// Check never fails; a broken probe is reported, not returned.
type HealthReporter struct {
	probes  []probe
	timeout time.Duration
	logger  *applogger.Logger
}

func NewHealthReporter(metals []repository.MetalSource, fx repository.ExchangeSource, timeout time.Duration, logger *applogger.Logger) *HealthReporter {
	if logger == nil {
		logger = applogger.Nop()
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	h := &HealthReporter{timeout: timeout, logger: logger}
	for _, src := range metals {
		src := src
		h.probes = append(h.probes, probe{
			name: string(src.Name()),
			fetch: func(ctx context.Context) error {
				_, err := src.Fetch(ctx)
				return err
			},
		})
	}
	if fx != nil {
		h.probes = append(h.probes, probe{
			name: string(fx.Name()),
			fetch: func(ctx context.Context) error {
				_, err := fx.Fetch(ctx)
				return err
			},
		})
	}
	return h
}

func (h *HealthReporter) Check(ctx context.Context) models.HealthReport {
	report := make(models.HealthReport, len(h.probes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range h.probes {
		p := p
		g.Go(func() error {
			res := h.run(gctx, p)
			mu.Lock()
			report[p.name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (h *HealthReporter) run(ctx context.Context, p probe) (res models.SourceHealth) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("health probe panicked", applogger.String("source", p.name), applogger.Any("panic", r))
			res = models.SourceHealth{Status: models.Unhealthy, Message: fmt.Sprintf("probe panicked: %v", r)}
		}
	}()

	pctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := p.fetch(pctx)
	switch {
	case err == nil:
		return models.SourceHealth{Status: models.Healthy, Message: healthyMessage}
	case errors.Is(err, models.ErrNotConfigured):
		return models.SourceHealth{Status: models.NotConfigured, Message: notConfiguredMessage}
	default:
		h.logger.Debug("health probe failed", applogger.String("source", p.name), applogger.Error(err))
		return models.SourceHealth{Status: models.Unhealthy, Message: err.Error()}
	}
}

// Overall folds a report into a single status: healthy when any source answered.
func Overall(r models.HealthReport) models.HealthStatus {
	anyHealthy := false
	for _, s := range r {
		if s.Status == models.Healthy {
			anyHealthy = true
		}
	}
	if anyHealthy {
		return models.Healthy
	}
	return models.Unhealthy
}
