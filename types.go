package idlebridge

import "github.com/idlebridge/go-idle-bridge/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the idlebridge package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// ResultTask is a unit of work producing a value of type T or an error
type ResultTask[T any] = core.ResultTask[T]

// Scheduler bridges producer goroutines to the host's main thread
type Scheduler = core.Scheduler

// SchedulerConfig configures a Scheduler's mode and collaborators
type SchedulerConfig = core.SchedulerConfig

// ScheduleOptions controls per-submission behavior (host idle nudge)
type ScheduleOptions = core.ScheduleOptions

// Future is the producer-visible result bridge for value-bearing tasks
type Future[T any] = core.Future[T]

// PanicError is delivered through a Future when a result task panics
type PanicError = core.PanicError

// IdleNotifier is the host's "cause idle routines to be called" primitive
type IdleNotifier = core.IdleNotifier

// IdleNotifierFunc adapts a plain function to IdleNotifier
type IdleNotifierFunc = core.IdleNotifierFunc

// IdleLoop simulates a host main thread for tests and headless embeddings
type IdleLoop = core.IdleLoop

// ExecutionMode selects deferred (queued) or immediate (synchronous) execution
type ExecutionMode = core.ExecutionMode

// Execution mode constants
const (
	ModeDeferred  ExecutionMode = core.ModeDeferred
	ModeImmediate ExecutionMode = core.ModeImmediate
)

// Convenience re-exports for configuration and construction
var (
	DefaultSchedulerConfig = core.DefaultSchedulerConfig
	DefaultScheduleOptions = core.DefaultScheduleOptions
	NewScheduler           = core.NewScheduler
	NewSchedulerWithConfig = core.NewSchedulerWithConfig
	NewImmediateScheduler  = core.NewImmediateScheduler
	NewIdleLoop            = core.NewIdleLoop
	NewIdleLoopWithConfig  = core.NewIdleLoopWithConfig
	GetCurrentScheduler    = core.GetCurrentScheduler
)

// ScheduleResult submits a result-bearing task and returns its Future.
// Re-exported wrapper around core.ScheduleResult (generic functions cannot
// be aliased with var).
func ScheduleResult[T any](s *Scheduler, task ResultTask[T]) *Future[T] {
	return core.ScheduleResult(s, task)
}

// ScheduleResultWithOptions is ScheduleResult with explicit options.
func ScheduleResultWithOptions[T any](s *Scheduler, task ResultTask[T], opts ScheduleOptions) *Future[T] {
	return core.ScheduleResultWithOptions(s, task, opts)
}

// RunOrSchedule submits a result-bearing task on a scheduler in either
// mode; see core.RunOrSchedule.
func RunOrSchedule[T any](s *Scheduler, task ResultTask[T]) *Future[T] {
	return core.RunOrSchedule(s, task)
}
