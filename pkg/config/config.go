package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Service     string `yaml:"service" default:"jewar-rates"`
	Version     string `yaml:"version" default:"1.0.0"`

	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"3001" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Rates struct {
		UpdateInterval  time.Duration `yaml:"update_interval" default:"30s" validate:"gt=0"`
		ChangeThreshold float64       `yaml:"change_threshold" default:"0.0005" validate:"gte=0,lt=1"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"5m" validate:"gt=0"`
		DegradedTTL     time.Duration `yaml:"degraded_ttl" default:"1m" validate:"gt=0"`
		ExchangeTTL     time.Duration `yaml:"exchange_ttl" default:"30m" validate:"gt=0"`
		HTTPTimeout     time.Duration `yaml:"http_timeout" default:"15s" validate:"gt=0"`
		HealthTimeout   time.Duration `yaml:"health_timeout" default:"5s" validate:"gt=0"`
		DefaultUSDINR   float64       `yaml:"default_usd_inr" default:"83.5" validate:"gt=0"`
		FallbackGold24  int64         `yaml:"fallback_gold_24k" default:"99150" validate:"gt=0"`
		FallbackSilver  int64         `yaml:"fallback_silver_24k" default:"1065" validate:"gt=0"`
		Simulation      bool          `yaml:"simulation" default:"true"`
		Bands           struct {
			GoldMin   float64 `yaml:"gold_min" default:"800"`
			GoldMax   float64 `yaml:"gold_max" default:"8000" validate:"gtfield=GoldMin"`
			SilverMin float64 `yaml:"silver_min" default:"5"`
			SilverMax float64 `yaml:"silver_max" default:"200" validate:"gtfield=SilverMin"`
			MinRatio  float64 `yaml:"min_gold_silver_ratio" default:"0.8"`
			USDINRMin float64 `yaml:"usd_inr_min" default:"60"`
			USDINRMax float64 `yaml:"usd_inr_max" default:"150" validate:"gtfield=USDINRMin"`
		} `yaml:"bands"`
	} `yaml:"rates"`

	Sources struct {
		MetalsAPI    Source `yaml:"metals_api"`
		GoldAPI      Source `yaml:"gold_api"`
		Fixer        Source `yaml:"fixer"`
		ExchangeRate Source `yaml:"exchange_rate_api"`
		CurrencyAPI  Source `yaml:"currency_api"`
	} `yaml:"sources"`

	Cache struct {
		Backend    string `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		MemorySize int    `yaml:"memory_size" default:"1000" validate:"gt=0"`
		Redis      struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"jewar"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	API struct {
		SecretKey      string        `yaml:"secret_key"`
		AllowedOrigins []string      `yaml:"allowed_origins" default:"[\"*\"]"`
		RateLimitMax   int           `yaml:"rate_limit_max" default:"100" validate:"gte=0"`
		RateLimitSpan  time.Duration `yaml:"rate_limit_window" default:"15m"`
	} `yaml:"api"`

	Kafka struct {
		Enabled        bool          `yaml:"enabled"`
		Brokers        []string      `yaml:"brokers" validate:"required_if=Enabled true"`
		Topic          string        `yaml:"topic" default:"jewar.rates"`
		LogTopic       string        `yaml:"log_topic" default:"jewar.logs"`
		Compression    string        `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		RequiredAcks   int           `yaml:"required_acks" default:"-1"`
		MaxAttempts    int           `yaml:"max_attempts" default:"3"`
		BatchTimeout   time.Duration `yaml:"batch_timeout" default:"50ms"`
		PublishTimeout time.Duration `yaml:"publish_timeout" default:"5s"`
		BufferSize     int           `yaml:"buffer_size" default:"64"`
	} `yaml:"kafka"`

	Log struct {
		Level         string        `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format        string        `yaml:"format" default:"json" validate:"oneof=json console"`
		ShipInterval  time.Duration `yaml:"ship_interval" default:"30s"`
		ShipThreshold int           `yaml:"ship_threshold" default:"100"`
	} `yaml:"log"`
}

// Source configures one upstream rate provider.
type Source struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	APIKey  string `yaml:"api_key"`
	URL     string `yaml:"url" validate:"omitempty,url"`
}

var validate = validator.New()

// Load applies defaults, then the YAML file at path if it exists.
// An empty path means defaults only.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	return &c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	source := func(prefix string, s *Source) {
		str(prefix+"_API_KEY", &s.APIKey)
		str(prefix+"_API_URL", &s.URL)
		s.Enabled = util.ParseBoolDefault(getenv("ENABLE_"+prefix+"_API"), s.Enabled)
	}

	str("ENVIRONMENT", &c.Environment)
	str("LOG_LEVEL", &c.Log.Level)
	c.Server.Port = util.ParseIntDefault(getenv("PORT"), c.Server.Port)

	source("METALS", &c.Sources.MetalsAPI)
	source("GOLD", &c.Sources.GoldAPI)
	source("FIXER", &c.Sources.Fixer)

	c.Rates.UpdateInterval = util.ParseDurationDefault(getenv("UPDATE_INTERVAL"), c.Rates.UpdateInterval)
	if v := getenv("CACHE_TTL"); v != "" {
		// bare numbers are seconds here, unlike UPDATE_INTERVAL
		if secs := util.ParseIntDefault(v, 0); secs > 0 {
			c.Rates.CacheTTL = time.Duration(secs) * time.Second
		} else {
			c.Rates.CacheTTL = util.ParseDurationDefault(v, c.Rates.CacheTTL)
		}
	}

	str("API_SECRET_KEY", &c.API.SecretKey)
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		c.API.AllowedOrigins = util.SplitCSV(v)
	}

	if util.ParseBoolDefault(getenv("USE_REDIS"), c.Cache.Backend == "redis") {
		c.Cache.Backend = "redis"
	} else {
		c.Cache.Backend = "memory"
	}
	str("REDIS_HOST", &c.Cache.Redis.Host)
	c.Cache.Redis.Port = util.ParseIntDefault(getenv("REDIS_PORT"), c.Cache.Redis.Port)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)

	c.Kafka.Enabled = util.ParseBoolDefault(getenv("KAFKA_ENABLED"), c.Kafka.Enabled)
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	str("KAFKA_TOPIC", &c.Kafka.Topic)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Rates.Bands.MinRatio <= 0 {
		return fmt.Errorf("rates.bands.min_gold_silver_ratio must be positive")
	}
	return nil
}

// APIsConfigured reports which metal and FX providers can be called.
func (c *Config) APIsConfigured() map[string]bool {
	keyed := func(s Source) bool { return s.Enabled && s.APIKey != "" }
	return map[string]bool{
		string(models.SourceMetalsAPI):       keyed(c.Sources.MetalsAPI),
		string(models.SourceGoldAPI):         keyed(c.Sources.GoldAPI),
		string(models.SourceFixerAPI):        keyed(c.Sources.Fixer),
		string(models.SourceExchangeRateAPI): c.Sources.ExchangeRate.Enabled,
		string(models.SourceCurrencyAPI):     c.Sources.CurrencyAPI.Enabled,
	}
}
