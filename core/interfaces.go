package core

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// IdleNotifier: Host idle-notification primitive
// =============================================================================

// IdleNotifier asks the host to run its idle routines soon, so that queued
// tasks are pumped promptly instead of waiting for the next natural idle.
//
// Implementations must be safe to call from any goroutine, must not block,
// and must tolerate being called repeatedly (the scheduler fires one nudge
// per notifying submission).
type IdleNotifier interface {
	CauseIdle()
}

// IdleNotifierFunc adapts a plain function to the IdleNotifier interface.
type IdleNotifierFunc func()

// CauseIdle calls f.
func (f IdleNotifierFunc) CauseIdle() { f() }

// NoopIdleNotifier discards idle requests. This is the default when no host
// integration is configured; queued tasks then run only when the host calls
// Pump on its own schedule.
type NoopIdleNotifier struct{}

// CauseIdle does nothing.
func (NoopIdleNotifier) CauseIdle() {}

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a fire-and-forget task panics during a pump.
// The pump contains the panic; the handler decides how to report it.
//
// Implementations should be thread-safe: with multiple schedulers sharing a
// handler, calls may happen concurrently.
type PanicHandler interface {
	// HandlePanic is called with the context of the panicked task, the
	// recovered panic value and the stack trace captured at recovery time.
	HandlePanic(ctx context.Context, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, panicInfo any, stackTrace []byte) {
	fmt.Printf("[Scheduler] Task panic: %v\nStack trace:\n%s", panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting scheduler metrics.
// Implementations can send metrics to monitoring systems (Prometheus,
// StatsD, etc.).
//
// Methods should be non-blocking and fast: RecordTaskDuration and
// RecordQueueDepth fire on the host's idle cycle, where stalls are visible
// to the user.
type Metrics interface {
	// RecordTaskDuration records how long a pumped task took to execute.
	RecordTaskDuration(duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(panicInfo any)

	// RecordQueueDepth records the queue depth after an enqueue or a pump.
	RecordQueueDepth(depth int)

	// RecordIdleNotify records that the host idle notifier was invoked.
	RecordIdleNotify()
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(panicInfo any) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(depth int) {}

// RecordIdleNotify is a no-op.
func (m *NilMetrics) RecordIdleNotify() {}

// =============================================================================
// SchedulerConfig: Configuration for Scheduler
// =============================================================================

// SchedulerConfig holds configuration options for a Scheduler. All
// collaborators are optional; if not provided, default implementations will
// be used.
type SchedulerConfig struct {
	// Mode selects deferred (queued, host-pumped) or immediate (synchronous
	// in the caller) execution. Defaults to ModeDeferred. The mode is fixed
	// at construction.
	Mode ExecutionMode

	// Notifier is the host's idle-notification primitive. Defaults to
	// NoopIdleNotifier.
	Notifier IdleNotifier

	// PanicHandler is called when a fire-and-forget task panics. Defaults
	// to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record scheduler metrics. Defaults to NilMetrics.
	Metrics Metrics

	// Logger receives scheduler lifecycle and containment logs. Defaults to
	// DefaultLogger.
	Logger Logger

	// HistoryCapacity bounds the in-memory ring of recent task execution
	// records. Defaults to defaultHistoryCapacity when zero or negative.
	HistoryCapacity int
}

// DefaultSchedulerConfig returns a config with default collaborators and
// deferred execution.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Mode:         ModeDeferred,
		Notifier:     NoopIdleNotifier{},
		PanicHandler: &DefaultPanicHandler{},
		Metrics:      &NilMetrics{},
		Logger:       NewDefaultLogger(),
	}
}
