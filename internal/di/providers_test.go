package di

import (
	"testing"

	pkgcache "JewarRates/pkg/cache"
	"JewarRates/pkg/config"
	applogger "JewarRates/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestInitializeAppWithDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)
	cleanup()
}

func TestOptionalComponentsStayNil(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.API.RateLimitMax = 0

	producer, cleanup, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, producer)
	assert.Nil(t, ProvideLogShipping(cfg, producer))
	assert.Nil(t, ProvidePublishPipeline(cfg, producer, nil, applogger.Nop()))
	assert.Nil(t, ProvideLimiter(cfg))
}

func TestKafkaWithoutBrokersFails(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil

	_, _, err := ProvideKafkaProducer(cfg)
	require.Error(t, err)
}

func TestRedisUnavailableFallsBackToMemory(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Host = "127.0.0.1"
	cfg.Cache.Redis.Port = 1

	svc, cleanup, err := ProvideCache(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()

	require.IsType(t, &pkgcache.MemoryCache{}, svc)
}

func TestMetalSourcesPriorityOrder(t *testing.T) {
	cfg := defaultConfig(t)
	sources := ProvideMetalSources(cfg, ProvideHTTPClient(cfg))

	require.Len(t, sources, 2)
	assert.Equal(t, "metals_api", string(sources[0].Name()))
	assert.Equal(t, "gold_api", string(sources[1].Name()))
}
