package repository

import (
	"context"

	"JewarRates/internal/domain/models"
)

//go:generate mockgen -destination=mocks/mock_sources.go -package=mocks JewarRates/internal/domain/repository MetalSource,ExchangeSource

// MetalSource fetches a gold/silver spot quote in USD per troy ounce.
type MetalSource interface {
	Name() models.Source
	Fetch(ctx context.Context) (models.Quote, error)
}

// ExchangeSource fetches the USD to INR rate.
type ExchangeSource interface {
	Name() models.Source
	Fetch(ctx context.Context) (models.ExchangeRate, error)
}

// RatePublisher pushes published tables to a downstream channel.
type RatePublisher interface {
	Publish(ctx context.Context, t models.RateTable) error
	Close() error
}

type Metrics interface {
	RecordSourceResult(source, result string)
	RecordError(kind string)
	RecordRate(metal string, value float64)
	RecordLatency(op string, seconds float64)
	RecordPublish(notified bool)
}
