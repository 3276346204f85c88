package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/idlebridge/go-idle-bridge/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// StatsProvider provides current scheduler stats snapshots.
// *core.Scheduler satisfies it.
type StatsProvider interface {
	Stats() core.SchedulerStats
}

// StatsPoller periodically exports scheduler Stats() snapshots into
// Prometheus gauges. Useful alongside (or instead of) MetricsExporter when
// the embedding wants sampled state rather than per-event callbacks.
type StatsPoller struct {
	interval time.Duration

	schedulersMu sync.RWMutex
	schedulers   map[string]StatsProvider

	queued   *prom.GaugeVec
	executed *prom.GaugeVec
	panicked *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStatsPoller creates a stats poller and registers its collectors.
func NewStatsPoller(reg prom.Registerer, interval time.Duration) (*StatsPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	queued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "idlebridge",
		Name:      "scheduler_queued",
		Help:      "Tasks waiting for the pump, per scheduler.",
	}, []string{"scheduler", "mode"})
	executed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "idlebridge",
		Name:      "scheduler_executed_total",
		Help:      "Executed task count snapshot, per scheduler.",
	}, []string{"scheduler", "mode"})
	panicked := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "idlebridge",
		Name:      "scheduler_panicked_total",
		Help:      "Contained task panic count snapshot, per scheduler.",
	}, []string{"scheduler", "mode"})

	var err error
	if queued, err = registerCollector(reg, queued); err != nil {
		return nil, err
	}
	if executed, err = registerCollector(reg, executed); err != nil {
		return nil, err
	}
	if panicked, err = registerCollector(reg, panicked); err != nil {
		return nil, err
	}

	return &StatsPoller{
		interval:   interval,
		schedulers: make(map[string]StatsProvider),
		queued:     queued,
		executed:   executed,
		panicked:   panicked,
	}, nil
}

// AddScheduler adds or replaces a scheduler snapshot provider by name.
func (p *StatsPoller) AddScheduler(name string, provider StatsProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "scheduler"
	}
	p.schedulersMu.Lock()
	p.schedulers[name] = provider
	p.schedulersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *StatsPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *StatsPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *StatsPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *StatsPoller) collectOnce() {
	p.schedulersMu.RLock()
	defer p.schedulersMu.RUnlock()

	for name, provider := range p.schedulers {
		stats := provider.Stats()
		mode := stats.Mode.String()
		p.queued.WithLabelValues(name, mode).Set(float64(stats.Queued))
		p.executed.WithLabelValues(name, mode).Set(float64(stats.Executed))
		p.panicked.WithLabelValues(name, mode).Set(float64(stats.Panicked))
	}
}
