package core

import "context"

// Task is the unit of work (Closure). Tasks are anonymous, executed at most
// once, and owned by the queue from enqueue until the pump removes them.
type Task func(ctx context.Context)

// ResultTask is a unit of work that produces a value of type T or an error.
// The scheduler wraps it so that exactly one of the two is delivered to the
// producer through a Future.
type ResultTask[T any] func(ctx context.Context) (T, error)

// =============================================================================
// ScheduleOptions: Per-submission options
// =============================================================================

// ScheduleOptions controls how a single submission behaves.
type ScheduleOptions struct {
	// NotifyHost controls whether the host's idle-notification primitive is
	// invoked after the task is queued. Leave it true for tasks submitted
	// from background goroutines so the host picks them up promptly. Set it
	// to false when scheduling from inside a host callback where forcing an
	// idle cycle is unsafe; the task then waits for the next natural idle.
	NotifyHost bool
}

// DefaultScheduleOptions returns the options used by Schedule: the host is
// nudged into an idle cycle immediately.
func DefaultScheduleOptions() ScheduleOptions {
	return ScheduleOptions{NotifyHost: true}
}

// =============================================================================
// ExecutionMode: Deferred vs immediate execution
// =============================================================================

// ExecutionMode selects how a Scheduler executes submitted tasks.
type ExecutionMode int

const (
	// ModeDeferred queues tasks for the host's pump. This is the normal
	// operating mode: producers enqueue, the host executes one task per
	// idle cycle.
	ModeDeferred ExecutionMode = iota

	// ModeImmediate executes every submission synchronously on the calling
	// goroutine. Intended for contexts with no host idle loop.
	//
	// Unlike the historical fallback (which discarded errors raised during
	// immediate execution), errors and panics in this mode are delivered
	// through the same Future used in deferred mode.
	ModeImmediate
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeDeferred:
		return "deferred"
	case ModeImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// =============================================================================
// Context Helper
// =============================================================================

type schedulerKeyType struct{}

var schedulerKey schedulerKeyType

// GetCurrentScheduler returns the Scheduler whose pump is executing the
// current task, or nil outside of a pump. Tasks can use it to re-schedule
// follow-up work without capturing the scheduler instance.
func GetCurrentScheduler(ctx context.Context) *Scheduler {
	if v := ctx.Value(schedulerKey); v != nil {
		return v.(*Scheduler)
	}
	return nil
}
