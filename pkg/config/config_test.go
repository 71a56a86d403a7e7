package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 3001, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Rates.UpdateInterval)
	assert.Equal(t, 5*time.Minute, c.Rates.CacheTTL)
	assert.InDelta(t, 0.0005, c.Rates.ChangeThreshold, 1e-12)
	assert.Equal(t, int64(99150), c.Rates.FallbackGold24)
	assert.Equal(t, []string{"*"}, c.API.AllowedOrigins)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.True(t, c.Sources.ExchangeRate.Enabled)
	assert.False(t, c.Kafka.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
environment: production
server:
  port: 8080
rates:
  update_interval: 1m
sources:
  currency_api:
    enabled: false
cache:
  backend: redis
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, time.Minute, c.Rates.UpdateInterval)
	assert.False(t, c.Sources.CurrencyAPI.Enabled)
	assert.Equal(t, "redis", c.Cache.Backend)
	assert.Equal(t, 6379, c.Cache.Redis.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad backend":       "cache:\n  backend: memcached\n",
		"kafka w/o brokers": "kafka:\n  enabled: true\n",
		"inverted band":     "rates:\n  bands:\n    gold_min: 9000\n",
		"bad yaml":          "server: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("METALS_API_KEY", "mk")
	t.Setenv("ENABLE_GOLD_API", "false")
	t.Setenv("UPDATE_INTERVAL", "60000")
	t.Setenv("CACHE_TTL", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://jewar.example, http://localhost:8081")
	t.Setenv("USE_REDIS", "true")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("API_SECRET_KEY", "s3cret")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, 4000, c.Server.Port)
	assert.Equal(t, "mk", c.Sources.MetalsAPI.APIKey)
	assert.False(t, c.Sources.GoldAPI.Enabled)
	assert.Equal(t, time.Minute, c.Rates.UpdateInterval)
	assert.Equal(t, 2*time.Minute, c.Rates.CacheTTL)
	assert.Equal(t, []string{"https://jewar.example", "http://localhost:8081"}, c.API.AllowedOrigins)
	assert.Equal(t, "redis", c.Cache.Backend)
	assert.Equal(t, "redis", c.Cache.Redis.Host)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "s3cret", c.API.SecretKey)

	apis := c.APIsConfigured()
	assert.True(t, apis["metals_api"])
	assert.False(t, apis["gold_api"])
	assert.False(t, apis["fixer_api"])
}

func TestLoadWithEnvKeepsInvalidIntervalDefault(t *testing.T) {
	t.Setenv("UPDATE_INTERVAL", "often")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.Rates.UpdateInterval)
}
