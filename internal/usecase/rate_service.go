package usecase

import (
	"context"
	"time"

	"JewarRates/internal/domain/models"
	domsvc "JewarRates/internal/domain/service"
	"JewarRates/internal/service/ratecalc"
)

// RateService is the single entry point of the rate subsystem. It owns no
// state of its own beyond what the updater and reporter hold.
type RateService struct {
	updater  *RateUpdater
	health   *HealthReporter
	hours    ratecalc.MarketHours
	settings models.RatesSettings
	now      func() time.Time
}

var _ domsvc.RateService = (*RateService)(nil)

func NewRateService(updater *RateUpdater, health *HealthReporter, hours ratecalc.MarketHours, settings models.RatesSettings) *RateService {
	return &RateService{
		updater:  updater,
		health:   health,
		hours:    hours,
		settings: settings,
		now:      time.Now,
	}
}

// CurrentRates returns the latest published table without touching the network.
func (s *RateService) CurrentRates() models.RateTable {
	return s.updater.Current()
}

func (s *RateService) SubscribeToRates(fn models.Subscriber) func() {
	return s.updater.Subscribe(context.Background(), fn)
}

func (s *RateService) RefreshRates(ctx context.Context) models.RateTable {
	return s.updater.Refresh(ctx)
}

func (s *RateService) CheckHealth(ctx context.Context) models.HealthReport {
	return s.health.Check(ctx)
}

func (s *RateService) Status() models.UpdaterStatus {
	return s.updater.Status()
}

// Estimate prices a piece against the current table.
func (s *RateService) Estimate(req models.EstimateRequest) (models.Estimate, error) {
	return ratecalc.Estimate(s.updater.Current(), req)
}

func (s *RateService) MarketStatus() models.MarketStatus {
	return s.hours.Status(s.now())
}

func (s *RateService) Settings() models.RatesSettings {
	out := s.settings
	out.APIsConfigured = make(map[string]bool, len(s.settings.APIsConfigured))
	for k, v := range s.settings.APIsConfigured {
		out.APIsConfigured[k] = v
	}
	return out
}
