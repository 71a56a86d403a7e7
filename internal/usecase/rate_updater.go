package usecase

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
	applogger "JewarRates/pkg/logger"
)

const (
	DefaultUpdateInterval  = 30 * time.Second
	DefaultChangeThreshold = 0.0005
	defaultTickTimeout     = 30 * time.Second
)

// RateFetcher is the slice of RateOrchestrator the updater drives.
type RateFetcher interface {
	Fetch(ctx context.Context) models.RateTable
	// FetchFresh skips the cached table and never joins a cached cycle.
	FetchFresh(ctx context.Context) models.RateTable
	Invalidate(ctx context.Context) error
	Fallback() models.RateTable
}

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newStdTicker(d time.Duration) Ticker { return stdTicker{t: time.NewTicker(d)} }

type UpdaterConfig struct {
	Interval        time.Duration
	ChangeThreshold float64
	TickTimeout     time.Duration
}

type UpdaterOption func(*RateUpdater)

// WithTicker swaps the ticker factory.
func WithTicker(f func(time.Duration) Ticker) UpdaterOption {
	return func(u *RateUpdater) { u.newTicker = f }
}

func WithUpdaterClock(now func() time.Time) UpdaterOption {
	return func(u *RateUpdater) { u.now = now }
}

// RateUpdater polls the orchestrator on a fixed interval and notifies
// subscribers when 24KT gold or silver moved past the change threshold.
type RateUpdater struct {
	fetcher RateFetcher
	metrics repository.Metrics
	logger  *applogger.Logger
	cfg     UpdaterConfig

	newTicker func(time.Duration) Ticker
	now       func() time.Time

	busy atomic.Bool
	// loopNotifying is set while the loop goroutine runs subscriber callbacks.
	loopNotifying atomic.Bool

	mu         sync.Mutex
	subs       map[uint64]models.Subscriber
	nextID     uint64
	running    bool
	pinned     bool
	cancel     context.CancelFunc
	done       chan struct{}
	nextUpdate time.Time
	published  models.RateTable
	hasTable   bool
	lastNotify time.Time
}

func NewRateUpdater(fetcher RateFetcher, metrics repository.Metrics, logger *applogger.Logger, cfg UpdaterConfig, opts ...UpdaterOption) *RateUpdater {
	if logger == nil {
		logger = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultUpdateInterval
	}
	if cfg.ChangeThreshold < 0 {
		cfg.ChangeThreshold = DefaultChangeThreshold
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = defaultTickTimeout
	}
	u := &RateUpdater{
		fetcher:   fetcher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		newTicker: newStdTicker,
		now:       time.Now,
		subs:      make(map[uint64]models.Subscriber),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start launches the loop and pins it so it survives the last unsubscribe.
// A second call is a no-op.
func (u *RateUpdater) Start(ctx context.Context) {
	u.mu.Lock()
	u.pinned = true
	u.mu.Unlock()
	u.start(ctx)
}

func (u *RateUpdater) start(ctx context.Context) {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ticker := u.newTicker(u.cfg.Interval)
	u.running = true
	u.cancel = cancel
	u.done = make(chan struct{})
	u.nextUpdate = u.now().Add(u.cfg.Interval)
	done := u.done
	u.mu.Unlock()

	u.logger.Info("rate updater started", applogger.Duration("interval", u.cfg.Interval))
	go u.loop(loopCtx, ticker, done)
}

func (u *RateUpdater) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	u.tickWithTimeout(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			u.mu.Lock()
			u.nextUpdate = u.now().Add(u.cfg.Interval)
			u.mu.Unlock()
			u.tickWithTimeout(ctx)
		}
	}
}

type loopTickKey struct{}

func (u *RateUpdater) tickWithTimeout(ctx context.Context) {
	tctx, cancel := context.WithTimeout(context.WithValue(ctx, loopTickKey{}, true), u.cfg.TickTimeout)
	defer cancel()
	u.Tick(tctx)
}

// Stop halts the loop and waits for it to exit. Safe when not running.
// Called from a subscriber during a loop notification it only cancels the
// loop, which then exits once the callback returns.
func (u *RateUpdater) Stop() {
	u.mu.Lock()
	u.pinned = false
	done := u.stopLocked()
	u.mu.Unlock()
	if done == nil {
		return
	}
	if !u.loopNotifying.Load() {
		<-done
	}
	u.logger.Info("rate updater stopped")
}

func (u *RateUpdater) stopLocked() chan struct{} {
	if !u.running {
		return nil
	}
	u.cancel()
	u.running = false
	u.cancel = nil
	return u.done
}

// Tick runs one fetch and publish. It returns false without fetching when
// another tick is in flight, otherwise whether subscribers were notified.
func (u *RateUpdater) Tick(ctx context.Context) bool {
	if !u.busy.CompareAndSwap(false, true) {
		u.logger.Debug("update already in progress, skipping tick")
		return false
	}
	defer u.busy.Store(false)

	table := u.fetcher.Fetch(ctx)

	u.mu.Lock()
	notify := !u.hasTable || significant(u.published, table, u.cfg.ChangeThreshold)
	if notify {
		u.published = table.Clone()
		u.hasTable = true
		u.lastNotify = u.now()
	} else {
		// cached tables keep their fetch time; the published one still ages
		u.published.LastUpdated = u.now()
	}
	subs := u.snapshotLocked()
	u.mu.Unlock()

	u.metrics.RecordPublish(notify)
	if !notify {
		return false
	}
	u.metrics.RecordRate(string(models.Gold), float64(table.Gold.Base()))
	u.metrics.RecordRate(string(models.Silver), float64(table.Silver.Base()))
	if ctx.Value(loopTickKey{}) != nil {
		u.loopNotifying.Store(true)
		defer u.loopNotifying.Store(false)
	}
	u.notify(subs, table)
	return true
}

// Refresh bypasses the cache and notifies every subscriber regardless of
// the change threshold.
func (u *RateUpdater) Refresh(ctx context.Context) models.RateTable {
	if err := u.fetcher.Invalidate(ctx); err != nil {
		u.logger.Warn("cache invalidation failed", applogger.Error(err))
	}
	table := u.fetcher.FetchFresh(ctx)

	u.mu.Lock()
	u.published = table.Clone()
	u.hasTable = true
	u.lastNotify = u.now()
	subs := u.snapshotLocked()
	u.mu.Unlock()

	u.metrics.RecordPublish(true)
	u.metrics.RecordRate(string(models.Gold), float64(table.Gold.Base()))
	u.metrics.RecordRate(string(models.Silver), float64(table.Silver.Base()))
	u.notify(subs, table)
	return table
}

// Current returns the last published table, or the static fallback before
// anything was published.
func (u *RateUpdater) Current() models.RateTable {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.hasTable {
		return u.fetcher.Fallback()
	}
	return u.published.Clone()
}

// Subscribe registers fn, calls it once with the current table and starts
// the loop for the first subscriber. The returned func is idempotent.
func (u *RateUpdater) Subscribe(ctx context.Context, fn models.Subscriber) func() {
	u.mu.Lock()
	id := u.nextID
	u.nextID++
	u.subs[id] = fn
	u.mu.Unlock()

	u.safeCall(fn, u.Current())
	u.start(ctx)

	var once sync.Once
	return func() {
		once.Do(func() { u.unsubscribe(id) })
	}
}

// unsubscribe cancels the loop when the last subscriber leaves but does not
// wait for it: the caller may be a subscriber running on the loop itself.
func (u *RateUpdater) unsubscribe(id uint64) {
	u.mu.Lock()
	delete(u.subs, id)
	stopped := false
	if len(u.subs) == 0 && !u.pinned {
		stopped = u.stopLocked() != nil
	}
	u.mu.Unlock()
	if stopped {
		u.logger.Info("rate updater stopped, no subscribers left")
	}
}

func (u *RateUpdater) Status() models.UpdaterStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := models.UpdaterStatus{
		Running:       u.running,
		Updating:      u.busy.Load(),
		Interval:      u.cfg.Interval,
		IntervalMs:    u.cfg.Interval.Milliseconds(),
		Subscribers:   len(u.subs),
		LastPublished: u.lastNotify,
	}
	if u.running {
		next := u.nextUpdate
		st.NextUpdate = &next
	}
	return st
}

func (u *RateUpdater) snapshotLocked() []models.Subscriber {
	subs := make([]models.Subscriber, 0, len(u.subs))
	for _, fn := range u.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (u *RateUpdater) notify(subs []models.Subscriber, t models.RateTable) {
	for _, fn := range subs {
		u.safeCall(fn, t.Clone())
	}
}

func (u *RateUpdater) safeCall(fn models.Subscriber, t models.RateTable) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("subscriber panicked", applogger.Any("panic", r))
		}
	}()
	fn(t)
}

// significant reports whether the table changed provenance (source or
// warning) or 24KT gold or silver moved by more than threshold.
func significant(prev, next models.RateTable, threshold float64) bool {
	if prev.Source != next.Source || prev.Warning != next.Warning {
		return true
	}
	return relChange(prev.Gold.Base(), next.Gold.Base()) > threshold ||
		relChange(prev.Silver.Base(), next.Silver.Base()) > threshold
}

func relChange(prev, next int64) float64 {
	if prev == 0 {
		if next == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(float64(next-prev)) / float64(prev)
}
