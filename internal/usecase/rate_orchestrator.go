package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	icache "JewarRates/internal/service/cache"
	"JewarRates/internal/service/ratecalc"
	applogger "JewarRates/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const (
	simulationWarning = "Live sources unavailable; showing simulated rates"
	fallbackWarning   = "Using fallback rates due to API failure"

	refreshFlightKey = "refresh"
)

// OrchestratorConfig tunes the fetch cycle.
type OrchestratorConfig struct {
	TableTTL          time.Duration
	DegradedTTL       time.Duration
	ExchangeTTL       time.Duration
	DefaultUSDINR     float64
	FallbackGold24    int64
	FallbackSilver24  int64
	SimulationEnabled bool
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		TableTTL:          5 * time.Minute,
		DegradedTTL:       time.Minute,
		ExchangeTTL:       30 * time.Minute,
		DefaultUSDINR:     83.5,
		FallbackGold24:    99150,
		FallbackSilver24:  1065,
		SimulationEnabled: true,
	}
}

// RateOrchestrator runs one cache -> exchange rate -> metal sources ->
// convert cycle and degrades to simulated or static rates. Fetch never fails.
type RateOrchestrator struct {
	store     *icache.RateStore
	metals    []repository.MetalSource
	fx        repository.ExchangeSource
	validator *ratecalc.Validator
	sim       *ratecalc.Simulator
	metrics   repository.Metrics
	logger    *applogger.Logger
	cfg       OrchestratorConfig
	now       func() time.Time

	sf   singleflight.Group
	mu   sync.RWMutex
	last models.RateTable
}

type OrchestratorOption func(*RateOrchestrator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *RateOrchestrator) { o.now = now }
}

func NewRateOrchestrator(
	store *icache.RateStore,
	metals []repository.MetalSource,
	fx repository.ExchangeSource,
	validator *ratecalc.Validator,
	sim *ratecalc.Simulator,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg OrchestratorConfig,
	opts ...OrchestratorOption,
) *RateOrchestrator {
	if logger == nil {
		logger = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	o := &RateOrchestrator{
		store:     store,
		metals:    metals,
		fx:        fx,
		validator: validator,
		sim:       sim,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch returns the current table. Concurrent callers share one cycle.
func (o *RateOrchestrator) Fetch(ctx context.Context) models.RateTable {
	v, _, _ := o.sf.Do(icache.LiveRatesKey, func() (interface{}, error) {
		return o.cycle(ctx, true), nil
	})
	return v.(models.RateTable).Clone()
}

// FetchFresh runs a cycle that ignores the cached table. It shares work
// only with other fresh cycles, so a forced refresh never receives a
// table read from the cache by a concurrent Fetch.
func (o *RateOrchestrator) FetchFresh(ctx context.Context) models.RateTable {
	v, _, _ := o.sf.Do(refreshFlightKey, func() (interface{}, error) {
		return o.cycle(ctx, false), nil
	})
	return v.(models.RateTable).Clone()
}

// Invalidate drops the cached table.
func (o *RateOrchestrator) Invalidate(ctx context.Context) error {
	return o.store.Invalidate(ctx)
}

// Fallback is the static table used before anything has been fetched.
func (o *RateOrchestrator) Fallback() models.RateTable {
	t := ratecalc.BuildTable(o.cfg.FallbackGold24, o.cfg.FallbackSilver24, models.SourceFallback,
		models.ExchangeRate{USDToINR: o.cfg.DefaultUSDINR, Source: models.SourceDefault}, o.now())
	t.Warning = fallbackWarning
	return t
}

func (o *RateOrchestrator) cycle(ctx context.Context, useCache bool) models.RateTable {
	start := o.now()
	defer func() { o.metrics.RecordLatency("orchestrator_cycle", time.Since(start).Seconds()) }()

	if useCache {
		if t, ok := o.store.Table(ctx); ok {
			o.metrics.RecordSourceResult(string(t.Source), "cache_hit")
			return t
		}
	}

	rate := o.exchangeRate(ctx)

	quote, err := o.metalQuote(ctx)
	if err != nil {
		o.logger.Warn("all metal sources failed, degrading", applogger.Error(err))
		o.metrics.RecordError("all_sources_exhausted")
		return o.degrade(ctx, rate)
	}

	t := ratecalc.FromQuote(quote, rate, o.now())
	o.store.SetTable(ctx, t, o.cfg.TableTTL)
	o.remember(t)
	o.logger.Info("rates fetched",
		applogger.String("source", string(t.Source)),
		applogger.Int64("gold_24kt", t.Gold.Base()),
		applogger.Int64("silver_24kt", t.Silver.Base()),
		applogger.Float64("usd_inr", rate.USDToINR),
	)
	return t
}

func (o *RateOrchestrator) exchangeRate(ctx context.Context) models.ExchangeRate {
	if r, ok := o.store.ExchangeRate(ctx); ok {
		return r
	}

	r, err := o.fx.Fetch(ctx)
	if err != nil {
		o.logger.Warn("exchange rate unavailable, using default",
			applogger.Float64("usd_inr", o.cfg.DefaultUSDINR),
			applogger.Error(err),
		)
		o.metrics.RecordSourceResult(string(o.fx.Name()), resultOf(err))
		// not cached so the next cycle retries upstream
		return models.ExchangeRate{USDToINR: o.cfg.DefaultUSDINR, Source: models.SourceDefault, FetchedAt: o.now()}
	}

	o.metrics.RecordSourceResult(string(r.Source), "ok")
	o.store.SetExchangeRate(ctx, r, o.cfg.ExchangeTTL)
	return r
}

func (o *RateOrchestrator) metalQuote(ctx context.Context) (models.Quote, error) {
	var errs []error
	for _, src := range o.metals {
		name := string(src.Name())
		start := time.Now()
		q, err := src.Fetch(ctx)
		o.metrics.RecordLatency("fetch_"+name, time.Since(start).Seconds())

		if err != nil {
			if errors.Is(err, models.ErrNotConfigured) {
				o.logger.Debug("metal source not configured", applogger.String("source", name))
			} else {
				o.logger.Warn("metal source failed", applogger.String("source", name), applogger.Error(err))
			}
			o.metrics.RecordSourceResult(name, resultOf(err))
			errs = append(errs, err)
			continue
		}

		if err := o.validator.Check(q); err != nil {
			o.logger.Warn("metal quote rejected", applogger.String("source", name), applogger.Error(err))
			o.metrics.RecordSourceResult(name, "rejected")
			errs = append(errs, err)
			continue
		}

		o.metrics.RecordSourceResult(name, "ok")
		return q, nil
	}
	return models.Quote{}, errors.Join(append([]error{models.ErrAllSourcesExhausted}, errs...)...)
}

func (o *RateOrchestrator) degrade(ctx context.Context, rate models.ExchangeRate) models.RateTable {
	var t models.RateTable
	if o.cfg.SimulationEnabled && o.sim != nil {
		gold, silver := o.base()
		g, s := o.sim.Step(gold, silver, o.now())
		t = ratecalc.BuildTable(g, s, models.SourceSimulation, rate, o.now())
		t.Warning = simulationWarning
		o.remember(t)
	} else {
		t = o.Fallback()
		t.ExchangeRate = rate.USDToINR
		t.ExchangeSource = rate.Source
	}
	o.store.SetTable(ctx, t, o.cfg.DegradedTTL)
	return t
}

// base returns the last known 24KT values or the static fallback.
func (o *RateOrchestrator) base() (int64, int64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.last.IsZero() {
		return o.cfg.FallbackGold24, o.cfg.FallbackSilver24
	}
	return o.last.Gold.Base(), o.last.Silver.Base()
}

func (o *RateOrchestrator) remember(t models.RateTable) {
	o.mu.Lock()
	o.last = t.Clone()
	o.mu.Unlock()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, models.ErrInvalidResponse):
		return "invalid"
	case errors.Is(err, models.ErrUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordSourceResult(string, string) {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordRate(string, float64)        {}
func (nopMetrics) RecordLatency(string, float64)     {}
func (nopMetrics) RecordPublish(bool)                {}
