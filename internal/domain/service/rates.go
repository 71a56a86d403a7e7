package service

import (
	"context"

	"JewarRates/internal/domain/models"
)

// RateService is what external collaborators (HTTP handlers, push channels)
// see of the rate subsystem.
type RateService interface {
	CurrentRates() models.RateTable
	SubscribeToRates(fn models.Subscriber) (unsubscribe func())
	RefreshRates(ctx context.Context) models.RateTable
	CheckHealth(ctx context.Context) models.HealthReport
	Status() models.UpdaterStatus
	Estimate(req models.EstimateRequest) (models.Estimate, error)
	MarketStatus() models.MarketStatus
	Settings() models.RatesSettings
}
