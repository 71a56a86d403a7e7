package di

import (
	"fmt"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	"JewarRates/internal/handler/api"
	mid "JewarRates/internal/middleware"
	internalrepo "JewarRates/internal/repository"
	icache "JewarRates/internal/service/cache"
	"JewarRates/internal/service/fx"
	"JewarRates/internal/service/metals"
	apimetrics "JewarRates/internal/service/metrics"
	"JewarRates/internal/service/ratecalc"
	"JewarRates/internal/service/ratelimit"
	"JewarRates/internal/service/upstream"
	"JewarRates/internal/usecase"
	pkgcache "JewarRates/pkg/cache"
	"JewarRates/pkg/config"
	xhttp "JewarRates/pkg/http"
	"JewarRates/pkg/http/middleware"
	pkgkafka "JewarRates/pkg/kafka"
	applogger "JewarRates/pkg/logger"
	"JewarRates/pkg/metrics"
	"JewarRates/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger builds the process logger from the log section. With log
// shipping configured, every child logger feeds the same collector.
func ProvideLogger(cfg *config.Config, shipping *applogger.CollectionConfig) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	if shipping != nil {
		l.AddCollector(shipping)
	}
	root := l.With(
		applogger.String("service", cfg.Service),
		applogger.String("env", cfg.Environment),
	)
	return root, l.RemoveCollector, nil
}

// ProvideRegistry creates the registry served on the metrics endpoint.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

func ProvideAPIMetrics(reg *prometheus.Registry) *apimetrics.APIMetrics {
	return apimetrics.NewAPIMetrics(reg)
}

// ProvideCache returns the in-process cache, or Redis behind an in-process
// L1 when the redis backend is selected. An unreachable Redis degrades to
// memory only.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (pkgcache.Service, func(), error) {
	memOpts := []pkgcache.MemoryOption{
		pkgcache.WithMemoryMaxSize(cfg.Cache.MemorySize),
		pkgcache.WithMemoryCleanup(time.Minute),
	}

	if cfg.Cache.Backend == "redis" {
		rc, err := pkgcache.NewRedisCache(pkgcache.RedisConfig{
			Host:        cfg.Cache.Redis.Host,
			Port:        cfg.Cache.Redis.Port,
			Password:    cfg.Cache.Redis.Password,
			DB:          cfg.Cache.Redis.DB,
			Prefix:      cfg.Cache.Redis.Prefix,
			PingTimeout: cfg.Rates.HealthTimeout,
		})
		if err == nil {
			lc := pkgcache.NewLayeredCache(rc, memOpts...)
			l.Info("cache ready", applogger.String("backend", "redis"),
				applogger.String("host", cfg.Cache.Redis.Host), applogger.Int("port", cfg.Cache.Redis.Port))
			return lc, func() { _ = lc.Close() }, nil
		}
		l.Warn("redis unavailable, using memory cache", applogger.Error(err))
	}

	mc := pkgcache.NewMemoryCache(memOpts...)
	l.Info("cache ready", applogger.String("backend", "memory"))
	return mc, func() { _ = mc.Close() }, nil
}

func ProvideRateStore(svc pkgcache.Service, l *applogger.Logger) *icache.RateStore {
	return icache.NewRateStore(svc, l.With(applogger.String("component", "rate_store")))
}

// ProvideHTTPClient creates the client shared by every upstream source.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Rates.HTTPTimeout),
		xhttp.WithUserAgent(upstream.UserAgent),
	)
}

func settings(s config.Source) upstream.Settings {
	return upstream.Settings{Enabled: s.Enabled, APIKey: s.APIKey, BaseURL: s.URL}
}

// ProvideMetalSources returns metal providers in priority order.
func ProvideMetalSources(cfg *config.Config, client *xhttp.Client) []repository.MetalSource {
	return []repository.MetalSource{
		metals.NewMetalsAPI(client, settings(cfg.Sources.MetalsAPI)),
		metals.NewGoldAPI(client, settings(cfg.Sources.GoldAPI)),
	}
}

// ProvideExchangeSource chains the USD/INR providers in priority order.
func ProvideExchangeSource(cfg *config.Config, client *xhttp.Client, v *ratecalc.Validator, l *applogger.Logger) repository.ExchangeSource {
	return fx.NewChain(v, l.With(applogger.String("component", "fx")),
		fx.NewFixer(client, settings(cfg.Sources.Fixer)),
		fx.NewExchangeRateAPI(client, settings(cfg.Sources.ExchangeRate)),
		fx.NewCurrencyAPI(client, settings(cfg.Sources.CurrencyAPI)),
	)
}

func ProvideValidator(cfg *config.Config) *ratecalc.Validator {
	b := cfg.Rates.Bands
	return ratecalc.NewValidator(ratecalc.Bands{
		GoldMin:            b.GoldMin,
		GoldMax:            b.GoldMax,
		SilverMin:          b.SilverMin,
		SilverMax:          b.SilverMax,
		MinGoldSilverRatio: b.MinRatio,
		USDINRMin:          b.USDINRMin,
		USDINRMax:          b.USDINRMax,
	})
}

func ProvideMarketHours() ratecalc.MarketHours {
	return ratecalc.DefaultMarketHours()
}

func ProvideSimulator(hours ratecalc.MarketHours) *ratecalc.Simulator {
	return ratecalc.NewSimulator(ratecalc.WithMarketHours(hours))
}

// ProvideOrchestrator creates the fallback chain over sources, cache and simulation.
func ProvideOrchestrator(
	cfg *config.Config,
	store *icache.RateStore,
	metalSources []repository.MetalSource,
	fxSource repository.ExchangeSource,
	v *ratecalc.Validator,
	sim *ratecalc.Simulator,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.RateOrchestrator {
	return usecase.NewRateOrchestrator(store, metalSources, fxSource, v, sim, m,
		l.With(applogger.String("component", "orchestrator")),
		usecase.OrchestratorConfig{
			TableTTL:          cfg.Rates.CacheTTL,
			DegradedTTL:       cfg.Rates.DegradedTTL,
			ExchangeTTL:       cfg.Rates.ExchangeTTL,
			DefaultUSDINR:     cfg.Rates.DefaultUSDINR,
			FallbackGold24:    cfg.Rates.FallbackGold24,
			FallbackSilver24:  cfg.Rates.FallbackSilver,
			SimulationEnabled: cfg.Rates.Simulation,
		},
	)
}

func ProvideUpdater(cfg *config.Config, orch *usecase.RateOrchestrator, m repository.Metrics, l *applogger.Logger) *usecase.RateUpdater {
	return usecase.NewRateUpdater(orch, m, l.With(applogger.String("component", "updater")),
		usecase.UpdaterConfig{
			Interval:        cfg.Rates.UpdateInterval,
			ChangeThreshold: cfg.Rates.ChangeThreshold,
			TickTimeout:     cfg.Rates.HTTPTimeout * 3,
		},
	)
}

func ProvideHealthReporter(cfg *config.Config, metalSources []repository.MetalSource, fxSource repository.ExchangeSource, l *applogger.Logger) *usecase.HealthReporter {
	return usecase.NewHealthReporter(metalSources, fxSource, cfg.Rates.HealthTimeout,
		l.With(applogger.String("component", "health")))
}

// ProvideRateService assembles the facade used by the HTTP layer.
func ProvideRateService(cfg *config.Config, updater *usecase.RateUpdater, health *usecase.HealthReporter, hours ratecalc.MarketHours) *usecase.RateService {
	return usecase.NewRateService(updater, health, hours, models.RatesSettings{
		UpdateIntervalMs: cfg.Rates.UpdateInterval.Milliseconds(),
		CacheTTLSeconds:  int64(cfg.Rates.CacheTTL.Seconds()),
		ChangeThreshold:  cfg.Rates.ChangeThreshold,
		APIsConfigured:   cfg.APIsConfigured(),
		CacheBackend:     cfg.Cache.Backend,
		RedisEnabled:     cfg.Cache.Backend == "redis",
		KafkaEnabled:     cfg.Kafka.Enabled,
		SimulationOn:     cfg.Rates.Simulation,
	})
}

// ProvideLimiter returns nil when rate limiting is switched off.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.API.RateLimitMax <= 0 || cfg.API.RateLimitSpan <= 0 {
		return nil
	}
	return ratelimit.PerWindow(cfg.API.RateLimitMax, cfg.API.RateLimitSpan)
}

// ProvideHTTPServer builds the echo server with every route registered.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	svc *usecase.RateService,
	store *icache.RateStore,
	am *apimetrics.APIMetrics,
	limiter *ratelimit.Limiter,
) *xhttp.Server {
	hl := l.With(applogger.String("component", "http"))
	handlers := xhttp.Handlers{
		api.NewRatesEchoHandler(hl, svc, am, middleware.APIKey(cfg.API.SecretKey, hl)),
		api.NewHealthEchoHandler(hl, svc, store, api.ServiceInfo{
			Name:        cfg.Service,
			Version:     cfg.Version,
			Environment: cfg.Environment,
		}),
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	opts := []xhttp.ServerOption{
		xhttp.WithLogger(hl),
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.API.AllowedOrigins...),
		xhttp.WithMetrics(metricsPath, reg),
		xhttp.WithMiddleware(middleware.Metrics(reg, hl, cfg.Server.SlowRequest)),
	}
	if limiter != nil {
		skip := []string{"/"}
		if metricsPath != "" {
			skip = append(skip, metricsPath)
		}
		opts = append(opts, xhttp.WithMiddleware(middleware.RateLimit(limiter, hl, skip...)))
	}
	return xhttp.NewServer(handlers, opts...)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		ClientID:     cfg.Service,
		Compression:  cfg.Kafka.Compression,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		MaxAttempts:  cfg.Kafka.MaxAttempts,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvidePublishPipeline pushes published tables to Kafka. Nil without a producer.
func ProvidePublishPipeline(cfg *config.Config, producer *pkgkafka.Producer, m repository.Metrics, l *applogger.Logger) *mid.PublishPipeline {
	if producer == nil {
		return nil
	}
	pub := internalrepo.NewKafkaRatePublisher(producer, cfg.Kafka.Topic)
	return mid.NewPublishPipeline(pub, m, l.With(applogger.String("component", "publisher")),
		mid.WithBufferSize(cfg.Kafka.BufferSize),
		mid.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)
}

// ProvideLogShipping describes how error logs reach Kafka. Nil without a producer.
func ProvideLogShipping(cfg *config.Config, producer *pkgkafka.Producer) *applogger.CollectionConfig {
	if producer == nil {
		return nil
	}
	return &applogger.CollectionConfig{
		TimeInterval:   cfg.Log.ShipInterval,
		CountThreshold: cfg.Log.ShipThreshold,
		Topic:          cfg.Kafka.LogTopic,
		Levels:         []string{"error", "warn"},
		Publisher:      producer,
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	updater *usecase.RateUpdater,
	svc *usecase.RateService,
	httpServer *xhttp.Server,
	pipeline *mid.PublishPipeline,
	limiter *ratelimit.Limiter,
) *server.App {
	app := server.New(cfg, l, updater, svc, httpServer)
	if pipeline != nil {
		app.WithPublisher(pipeline)
	}
	if limiter != nil {
		app.WithLimiter(limiter)
	}
	return app
}

