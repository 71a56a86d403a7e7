package cache

import (
	"context"
	"time"

	"JewarRates/internal/domain/models"
	pkgcache "JewarRates/pkg/cache"
	applogger "JewarRates/pkg/logger"
)

const (
	LiveRatesKey    = "live_rates"
	ExchangeRateKey = "usd_inr"
)

// RateStore gives typed access to the two entries the orchestrator keeps.
// Backend failures are logged and treated as misses.
type RateStore struct {
	svc    pkgcache.Service
	logger *applogger.Logger
}

func NewRateStore(svc pkgcache.Service, l *applogger.Logger) *RateStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &RateStore{svc: svc, logger: l}
}

func (s *RateStore) Table(ctx context.Context) (models.RateTable, bool) {
	var t models.RateTable
	if !s.get(ctx, LiveRatesKey, &t) || t.IsZero() {
		return models.RateTable{}, false
	}
	return t.Clone(), true
}

func (s *RateStore) SetTable(ctx context.Context, t models.RateTable, ttl time.Duration) {
	s.set(ctx, LiveRatesKey, t.Clone(), ttl)
}

func (s *RateStore) ExchangeRate(ctx context.Context) (models.ExchangeRate, bool) {
	var r models.ExchangeRate
	if !s.get(ctx, ExchangeRateKey, &r) || r.USDToINR <= 0 {
		return models.ExchangeRate{}, false
	}
	return r, true
}

func (s *RateStore) SetExchangeRate(ctx context.Context, r models.ExchangeRate, ttl time.Duration) {
	s.set(ctx, ExchangeRateKey, r, ttl)
}

// Invalidate drops the cached table so the next read goes upstream.
func (s *RateStore) Invalidate(ctx context.Context) error {
	return s.svc.Delete(ctx, LiveRatesKey)
}

// Stats returns backend statistics when the backend tracks them.
func (s *RateStore) Stats() (pkgcache.Stats, bool) {
	if r, ok := s.svc.(pkgcache.StatsReporter); ok {
		return r.Stats(), true
	}
	return pkgcache.Stats{}, false
}

func (s *RateStore) get(ctx context.Context, key string, dest interface{}) bool {
	err := s.svc.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	// a bare miss is normal; anything wrapped carries a backend failure
	if err != pkgcache.ErrCacheMiss { //nolint:errorlint
		s.logger.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	return false
}

func (s *RateStore) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if err := s.svc.Set(ctx, key, v, ttl); err != nil {
		s.logger.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}
