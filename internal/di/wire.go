//go:build wireinject
// +build wireinject

package di

import (
	"JewarRates/pkg/config"
	"JewarRates/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup closes the cache, the log collector and the Kafka producer.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogShipping,
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideAPIMetrics,
		ProvideCache,
		ProvideRateStore,
		ProvideHTTPClient,

		// Sources and rate math
		ProvideMetalSources,
		ProvideValidator,
		ProvideExchangeSource,
		ProvideMarketHours,
		ProvideSimulator,

		// Use cases
		ProvideOrchestrator,
		ProvideUpdater,
		ProvideHealthReporter,
		ProvideRateService,
		ProvidePublishPipeline,

		// Transport
		ProvideLimiter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
