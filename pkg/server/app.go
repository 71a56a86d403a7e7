package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"JewarRates/internal/domain/models"
	domsvc "JewarRates/internal/domain/service"
	"JewarRates/pkg/config"
	xhttp "JewarRates/pkg/http"
	applogger "JewarRates/pkg/logger"
)

const pruneInterval = time.Minute

// Updater is the background refresh loop.
type Updater interface {
	Start(ctx context.Context)
	Stop()
}

// Publisher forwards published tables downstream.
type Publisher interface {
	Start(ctx context.Context)
	Stop()
	Subscriber() models.Subscriber
}

// Pruner drops idle rate limit buckets.
type Pruner interface {
	RunPruner(interval time.Duration, stop <-chan struct{})
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	updater    Updater
	svc        domsvc.RateService
	httpServer *xhttp.Server
	publisher  Publisher
	limiter    Pruner

	unsubscribe func()
	stopPrune   chan struct{}
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, updater Updater, svc domsvc.RateService, httpServer *xhttp.Server) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		logger:     l,
		updater:    updater,
		svc:        svc,
		httpServer: httpServer,
	}
}

// WithPublisher attaches the downstream push of published tables.
func (a *App) WithPublisher(p Publisher) *App {
	a.publisher = p
	return a
}

func (a *App) WithLimiter(p Pruner) *App {
	a.limiter = p
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return a.run(context.Background(), sigCh)
}

func (a *App) run(ctx context.Context, sigCh <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.publisher != nil {
		a.publisher.Start(ctx)
		a.unsubscribe = a.svc.SubscribeToRates(a.pushPublished(a.publisher.Subscriber()))
		a.logger.Info("rate push enabled", applogger.String("topic", a.cfg.Kafka.Topic))
	}

	a.updater.Start(ctx)

	if a.limiter != nil {
		a.stopPrune = make(chan struct{})
		go a.limiter.RunPruner(pruneInterval, a.stopPrune)
	}

	errCh := a.httpServer.Start()
	a.logger.Info("service started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = err
		}
	case <-ctx.Done():
	}

	a.shutdown(ctx)
	return runErr
}

// pushPublished drops the placeholder table a subscriber receives before
// the updater published anything, so the static fallback never reaches
// downstream consumers at boot.
func (a *App) pushPublished(push models.Subscriber) models.Subscriber {
	return func(t models.RateTable) {
		if a.svc.Status().LastPublished.IsZero() {
			return
		}
		push(t)
	}
}

// shutdown gracefully stops all services. Infrastructure clients are closed
// by the injector's cleanup.
func (a *App) shutdown(ctx context.Context) {
	a.logger.Info("shutting down...")

	if err := a.httpServer.Stop(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.updater.Stop()

	if a.publisher != nil {
		a.publisher.Stop()
	}
	if a.stopPrune != nil {
		close(a.stopPrune)
	}

	a.logger.Info("shutdown complete")
}
