package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"JewarRates/internal/domain/models"
	domrepo "JewarRates/internal/domain/repository"
	applogger "JewarRates/pkg/logger"
)

// PublishPipeline sits between the updater and a downstream publisher. Submit
// never blocks the updater; a background worker publishes with retry and
// backoff, and the bounded buffer sheds the oldest table when full.
type PublishPipeline struct {
	pub         domrepo.RatePublisher
	metrics     domrepo.Metrics
	logger      *applogger.Logger
	bufSize     int
	maxAttempts int
	timeout     time.Duration
	minBackoff  time.Duration
	maxBackoff  time.Duration

	bufCh   chan models.RateTable
	stopCh  chan struct{}
	done    chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*PublishPipeline)

// WithBufferSize sets how many tables wait while downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *PublishPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithRetry sets attempts per table and the backoff bounds between them.
func WithRetry(attempts int, minBackoff, maxBackoff time.Duration) PipelineOption {
	return func(p *PublishPipeline) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
		if minBackoff > 0 {
			p.minBackoff = minBackoff
		}
		if maxBackoff >= p.minBackoff {
			p.maxBackoff = maxBackoff
		}
	}
}

func WithPublishTimeout(d time.Duration) PipelineOption {
	return func(p *PublishPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewPublishPipeline creates a new pipeline.
func NewPublishPipeline(pub domrepo.RatePublisher, metrics domrepo.Metrics, logger *applogger.Logger, opts ...PipelineOption) *PublishPipeline {
	if logger == nil {
		logger = applogger.Nop()
	}
	p := &PublishPipeline{
		pub:         pub,
		metrics:     metrics,
		logger:      logger,
		bufSize:     64,
		maxAttempts: 5,
		timeout:     10 * time.Second,
		minBackoff:  50 * time.Millisecond,
		maxBackoff:  2 * time.Second,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan models.RateTable, p.bufSize)
	return p
}

// Start launches the background worker. Calling it twice is a no-op.
func (p *PublishPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(context.WithoutCancel(ctx))
}

func (p *PublishPipeline) run(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-p.stopCh:
			p.drain(ctx)
			return
		case t := <-p.bufCh:
			p.deliver(ctx, t)
		}
	}
}

// drain makes one attempt for each table still buffered at shutdown.
func (p *PublishPipeline) drain(ctx context.Context) {
	for {
		select {
		case t := <-p.bufCh:
			if err := p.publishOnce(ctx, t); err != nil {
				p.logger.Warn("rate push dropped at shutdown", applogger.Error(err))
			}
		default:
			return
		}
	}
}

func (p *PublishPipeline) deliver(ctx context.Context, t models.RateTable) {
	backoff := p.minBackoff
	for attempt := 1; ; attempt++ {
		err := p.publishOnce(ctx, t)
		if err == nil {
			return
		}
		p.metrics.RecordError("pipeline_publish")
		if attempt >= p.maxAttempts {
			p.logger.Error("rate push failed, dropping table",
				applogger.Int("attempts", attempt),
				applogger.String("source", string(t.Source)),
				applogger.Error(err),
			)
			p.metrics.RecordError("pipeline_drop")
			return
		}
		p.logger.Warn("rate push failed, retrying",
			applogger.Int("attempt", attempt),
			applogger.Duration("backoff", backoff),
			applogger.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-p.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
		if backoff *= 2; backoff > p.maxBackoff {
			backoff = p.maxBackoff
		}
	}
}

func (p *PublishPipeline) publishOnce(ctx context.Context, t models.RateTable) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.pub.Publish(ctx, t); err != nil {
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_publish", time.Since(start).Seconds())
	return nil
}

// Stop signals the worker, waits for it to flush what is buffered and
// returns. Safe to call when not started.
func (p *PublishPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	<-p.done
}

// Submit enqueues t without blocking. When the buffer is full the oldest
// table is dropped.
func (p *PublishPipeline) Submit(t models.RateTable) {
	for {
		select {
		case p.bufCh <- t.Clone():
			return
		default:
		}
		select {
		case <-p.bufCh:
			p.metrics.RecordError("pipeline_buffer_full")
		default:
		}
	}
}

// Pending reports how many tables are waiting.
func (p *PublishPipeline) Pending() int { return len(p.bufCh) }

// Subscriber adapts the pipeline to the updater's callback registry.
func (p *PublishPipeline) Subscriber() models.Subscriber {
	return p.Submit
}
