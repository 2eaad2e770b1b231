package console

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// The trend refresh refetches every execution record and re-aggregates, so
// its period is floored regardless of how low the operator sets the
// refresh interval.
const minTrendInterval = 5 * time.Second

// task is one cancellable repeating timer. Stopping cancels its context
// and waits for the loop to exit, so a stopped task can never fire again.
type task struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func startTask(parent context.Context, period time.Duration, fn func(context.Context)) *task {
	ctx, cancel := context.WithCancel(parent)
	t := &task{cancel: cancel}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	return t
}

func (t *task) stop() {
	t.cancel()
	t.wg.Wait()
}

// Poller owns the two recurring refresh timers: a metrics timer at the
// configured interval and a trend timer (executions fetch plus trend
// recomputation) at the same interval floored at minTrendInterval. The
// poller is the single owner of both timer lifecycles; rescheduling always
// cancels the existing tasks before creating new ones, so duplicate polling
// loops cannot arise.
type Poller struct {
	mu       sync.Mutex
	parent   context.Context
	interval time.Duration
	metrics  *task
	trend    *task

	fetchMetrics func(context.Context)
	fetchTrend   func(context.Context)

	log *zap.SugaredLogger
}

// NewPoller creates a poller bound to a parent context. Cancelling the
// parent stops both timers.
func NewPoller(parent context.Context, fetchMetrics, fetchTrend func(context.Context), log *zap.SugaredLogger) *Poller {
	return &Poller{
		parent:       parent,
		fetchMetrics: fetchMetrics,
		fetchTrend:   fetchTrend,
		log:          log,
	}
}

// Start begins both timers at the given refresh interval. It does not fire
// an immediate fetch; the first tick lands one period from now.
func (p *Poller) Start(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startLocked(interval)
	p.log.Infow("Poll timers started",
		"metrics_period", p.interval,
		"trend_period", trendPeriod(p.interval))
}

// Reschedule cancels both timers and restarts them at the new interval.
// It does not force an out-of-band fetch; in-flight requests from the old
// timers are not cancelled and still land when they resolve.
func (p *Poller) Reschedule(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.startLocked(interval)
	p.log.Infow("Poll timers rescheduled",
		"metrics_period", p.interval,
		"trend_period", trendPeriod(p.interval))
}

// Stop cancels both timers and waits for their loops to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// MetricsPeriod returns the current metrics timer period.
func (p *Poller) MetricsPeriod() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// TrendPeriod returns the current trend timer period.
func (p *Poller) TrendPeriod() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return trendPeriod(p.interval)
}

func (p *Poller) startLocked(interval time.Duration) {
	p.interval = interval
	p.metrics = startTask(p.parent, interval, p.fetchMetrics)
	p.trend = startTask(p.parent, trendPeriod(interval), p.fetchTrend)
}

func (p *Poller) stopLocked() {
	if p.metrics != nil {
		p.metrics.stop()
		p.metrics = nil
	}
	if p.trend != nil {
		p.trend.stop()
		p.trend = nil
	}
}

func trendPeriod(interval time.Duration) time.Duration {
	if interval < minTrendInterval {
		return minTrendInterval
	}
	return interval
}
