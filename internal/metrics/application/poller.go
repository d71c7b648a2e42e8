package application

import (
	"context"
	"sync"
	"time"

	"hostpulse/internal/metrics/domain"
	sharedlogger "hostpulse/internal/shared/logger"
)

const (
	DefaultPollInterval = 2 * time.Second
	// DefaultSampleTimeout bounds one poll cycle when the interval is shorter.
	DefaultSampleTimeout = 3 * time.Second
)

// StatsSource produces one extended sample per call.
type StatsSource interface {
	ExtendedRealTimeStats(ctx context.Context) (domain.ExtendedStats, []domain.SamplePoint, error)
}

// Poller drives the periodic sampling loop and emits every sample to a sink
type Poller struct {
	logger sharedlogger.Logger
	source StatsSource
	sink   domain.Sink

	mu       sync.Mutex
	interval      time.Duration
	sampleTimeout time.Duration
	running       bool
	resetCh  chan time.Duration

	wg sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPoller creates a poller. sink may be nil when nothing consumes pushes.
func NewPoller(logger sharedlogger.Logger, source StatsSource, sink domain.Sink, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		logger:   logger,
		source:   source,
		sink:     sink,
		interval:      interval,
		sampleTimeout: DefaultSampleTimeout,
		resetCh:       make(chan time.Duration, 1),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the loop. Calling it twice is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(p.interval)
	}()
	p.logger.Info("Poller started", "interval", p.interval)
}

func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the tick period of a running loop.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	if d == p.interval {
		p.mu.Unlock()
		return
	}
	p.interval = d
	p.mu.Unlock()

	// keep only the latest pending change
	select {
	case <-p.resetCh:
	default:
	}
	p.resetCh <- d
	p.logger.Info("Poll interval changed", "interval", d)
}

// SetSampleTimeout sets the shortest deadline a poll cycle gets. A sample
// blocks for at least the CPU sample interval, so this must cover it even
// when the poll interval does not.
func (p *Poller) SetSampleTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.sampleTimeout = d
	p.mu.Unlock()
}

// tickTimeout is the deadline of one cycle at the given interval
func (p *Poller) tickTimeout(interval time.Duration) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return max(interval, p.sampleTimeout)
}

// Stop cancels the loop and waits for an in-flight sample to finish
func (p *Poller) Stop(ctx context.Context) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (p *Poller) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.tick(p.tickTimeout(interval))
		case d := <-p.resetCh:
			interval = d
			ticker.Reset(d)
		case <-p.ctx.Done():
			return
		}
	}
}

// tick samples once. A sample that outlives timeout is abandoned and the
// cycle skipped; ticks that fire meanwhile are dropped by the ticker.
func (p *Poller) tick(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	stats, _, err := p.source.ExtendedRealTimeStats(ctx)
	if err != nil {
		p.logger.Warn("Poll cycle failed", "err", err)
		return
	}
	if p.sink == nil {
		return
	}
	if err := p.sink.Emit(ctx, stats); err != nil {
		p.logger.Warn("Failed to emit sample", "err", err)
	}
}
