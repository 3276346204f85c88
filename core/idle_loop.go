package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// IdleLoop simulates a host main thread for embeddings that have none: a
// dedicated goroutine that becomes idle on a fixed interval and pumps its
// scheduler once per cycle, exactly the way a real host drives Pump from
// its idle callback.
//
// IdleLoop implements IdleNotifier: CauseIdle nudges the loop into an extra
// idle cycle ahead of the next tick, so notifying submissions are picked up
// promptly. After a cycle that executed a task, the loop nudges itself
// while work remains, preserving one-task-per-pump while draining.
//
// Real host integrations do not need IdleLoop; they register Pump with the
// host's own idle hook and pass the host's notification primitive as the
// scheduler's Notifier.
type IdleLoop struct {
	scheduler *Scheduler
	interval  time.Duration

	// Nudge channel: capacity 1, non-blocking sends. Repeated nudges while
	// one is pending collapse into a single wakeup, matching the
	// idempotent-enough contract of the host primitive.
	nudge chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	stopped chan struct{}
	once    sync.Once
	closed  atomic.Bool
}

// NewIdleLoop creates an IdleLoop with its own deferred-mode scheduler,
// wired to itself as the idle notifier, and starts the loop goroutine.
func NewIdleLoop(interval time.Duration) *IdleLoop {
	return NewIdleLoopWithConfig(interval, DefaultSchedulerConfig())
}

// NewIdleLoopWithConfig creates an IdleLoop whose scheduler uses the given
// config. The config's Notifier is replaced with the loop itself; the mode
// must be deferred (an immediate-mode config is overridden, since a pump
// loop over an immediate scheduler would never see work).
func NewIdleLoopWithConfig(interval time.Duration, config *SchedulerConfig) *IdleLoop {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	if config == nil {
		config = DefaultSchedulerConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &IdleLoop{
		interval: interval,
		nudge:    make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}

	cfg := *config
	cfg.Mode = ModeDeferred
	cfg.Notifier = l
	l.scheduler = NewSchedulerWithConfig(&cfg)

	go l.run()

	return l
}

// Scheduler returns the scheduler driven by this loop. Submit work through
// it from any goroutine.
func (l *IdleLoop) Scheduler() *Scheduler {
	return l.scheduler
}

// CauseIdle requests an idle cycle ahead of the next tick. Safe from any
// goroutine, never blocks, safe to call repeatedly.
func (l *IdleLoop) CauseIdle() {
	if l.closed.Load() {
		return
	}
	select {
	case l.nudge <- struct{}{}:
	default:
	}
}

// IsStopped returns true once Stop has been called.
func (l *IdleLoop) IsStopped() bool {
	return l.closed.Load()
}

// Stop terminates the loop goroutine and waits for it to exit. Tasks still
// queued are discarded, matching process-exit semantics; their futures stay
// unfulfilled. Safe to call more than once.
func (l *IdleLoop) Stop() {
	l.once.Do(func() {
		l.closed.Store(true)
		l.cancel()
		<-l.stopped
	})
}

// run is the loop's dedicated goroutine: one pump per idle cycle, cycles
// driven by the ticker and by nudges.
func (l *IdleLoop) run() {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-l.nudge:
		case <-ticker.C:
		}

		if l.scheduler.Pump(l.ctx) {
			// More work may be queued behind the one task this cycle ran.
			l.CauseIdle()
		}
	}
}
