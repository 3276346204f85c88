package core

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Scheduler bridges producer goroutines to a host application's single
// privileged thread. Producers enqueue closures from any goroutine; the
// host, once per idle cycle, calls Pump, which removes and executes exactly
// one task. An optional IdleNotifier nudges the host into an idle cycle as
// soon as work arrives.
//
// The queue mutex is held only for the O(1) enqueue/dequeue, never across
// task execution, so tasks may call Schedule on their own scheduler without
// deadlocking; re-entrant submissions are appended for a later pump, never
// executed recursively.
//
// There is no shutdown drain: tasks still queued when the process exits are
// discarded and their futures left unfulfilled.
type Scheduler struct {
	queue *taskQueue
	mode  ExecutionMode

	notifier     IdleNotifier
	panicHandler PanicHandler
	metrics      Metrics
	logger       Logger

	history  executionHistory
	executed atomic.Int64
	panicked atomic.Int64
}

// NewScheduler creates a deferred-mode Scheduler with default collaborators.
// Wire the host integration by providing a Notifier via
// NewSchedulerWithConfig, and arrange for the host's idle callback to call
// Pump.
func NewScheduler() *Scheduler {
	return NewSchedulerWithConfig(DefaultSchedulerConfig())
}

// NewImmediateScheduler creates a Scheduler in immediate mode: every
// submission executes synchronously on the calling goroutine. Intended for
// contexts with no host idle loop (see ModeImmediate for the error-delivery
// note).
func NewImmediateScheduler() *Scheduler {
	config := DefaultSchedulerConfig()
	config.Mode = ModeImmediate
	return NewSchedulerWithConfig(config)
}

// NewSchedulerWithConfig creates a Scheduler with the given config.
// Nil collaborators fall back to the defaults.
func NewSchedulerWithConfig(config *SchedulerConfig) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}

	s := &Scheduler{
		queue:        newTaskQueue(),
		mode:         config.Mode,
		notifier:     config.Notifier,
		panicHandler: config.PanicHandler,
		metrics:      config.Metrics,
		logger:       config.Logger,
		history:      newExecutionHistory(config.HistoryCapacity),
	}

	if s.notifier == nil {
		s.notifier = NoopIdleNotifier{}
	}
	if s.panicHandler == nil {
		s.panicHandler = &DefaultPanicHandler{}
	}
	if s.metrics == nil {
		s.metrics = &NilMetrics{}
	}
	if s.logger == nil {
		s.logger = NewDefaultLogger()
	}

	return s
}

// Mode returns the execution mode fixed at construction.
func (s *Scheduler) Mode() ExecutionMode {
	return s.mode
}

// =============================================================================
// Producer side
// =============================================================================

// Schedule submits a fire-and-forget task and nudges the host into an idle
// cycle. Safe to call concurrently from any goroutine; never blocks. Tasks
// submitted by the same goroutine execute in submission order.
func (s *Scheduler) Schedule(task Task) {
	s.ScheduleWithOptions(task, DefaultScheduleOptions())
}

// ScheduleWithOptions submits a fire-and-forget task. With
// ScheduleOptions{NotifyHost: false} the host is not nudged and the task
// waits for the next natural idle cycle.
//
// In immediate mode the task executes synchronously before this call
// returns, with the same panic containment a pump would apply.
func (s *Scheduler) ScheduleWithOptions(task Task, opts ScheduleOptions) {
	if task == nil {
		return
	}

	if s.mode == ModeImmediate {
		s.runTask(context.Background(), task)
		return
	}

	s.queue.Push(task)
	s.metrics.RecordQueueDepth(s.queue.Len())

	if opts.NotifyHost {
		s.notifier.CauseIdle()
		s.metrics.RecordIdleNotify()
	}
}

// ScheduleDelayed submits a fire-and-forget task that enters the queue
// after delay. The delay timer runs off the host thread; only the execution
// happens on it.
func (s *Scheduler) ScheduleDelayed(task Task, delay time.Duration) {
	s.ScheduleDelayedWithOptions(task, delay, DefaultScheduleOptions())
}

// ScheduleDelayedWithOptions is ScheduleDelayed with explicit options,
// applied when the task enters the queue.
func (s *Scheduler) ScheduleDelayedWithOptions(task Task, delay time.Duration, opts ScheduleOptions) {
	if task == nil {
		return
	}
	if delay <= 0 {
		s.ScheduleWithOptions(task, opts)
		return
	}

	// time.AfterFunc fires on its own goroutine; the enqueue path is the
	// same any other producer goroutine takes.
	time.AfterFunc(delay, func() {
		s.ScheduleWithOptions(task, opts)
	})
}

// ScheduleResult submits a result-bearing task and returns a Future the
// producer can wait on. Exactly one of the task's return value, its error,
// or a *PanicError is delivered through the Future; failures never
// propagate anywhere else.
func ScheduleResult[T any](s *Scheduler, task ResultTask[T]) *Future[T] {
	return ScheduleResultWithOptions(s, task, DefaultScheduleOptions())
}

// ScheduleResultWithOptions is ScheduleResult with explicit options.
func ScheduleResultWithOptions[T any](s *Scheduler, task ResultTask[T], opts ScheduleOptions) *Future[T] {
	future := newFuture[T]()

	s.ScheduleWithOptions(func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				future.complete(zero, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		value, err := task(ctx)
		future.complete(value, err)
	}, opts)

	return future
}

// RunOrSchedule submits a result-bearing task on a scheduler that may be in
// either mode: deferred schedulers queue it for the host pump, immediate
// schedulers run it synchronously before returning. In both modes the
// returned Future carries the task's value, error, or panic.
//
// The historical immediate path silently discarded task errors; that
// behavior looked like an oversight and is not reproduced here.
func RunOrSchedule[T any](s *Scheduler, task ResultTask[T]) *Future[T] {
	return ScheduleResult(s, task)
}

// =============================================================================
// Consumer side
// =============================================================================

// Pump removes and executes at most one task. The host must call it exactly
// once per idle cycle, from the single privileged thread; one task per call
// bounds the work done per idle tick and keeps the host responsive.
//
// Any panic from the task is contained here and reported through the
// configured PanicHandler, Metrics and Logger; it never reaches the host's
// idle cycle. Returns true if a task ran, false if the queue was empty, so
// hosts that want to drain faster can request another idle cycle while work
// remains.
func (s *Scheduler) Pump(ctx context.Context) bool {
	// Pop-then-run: the queue lock is released before execution so a
	// running task can re-enter Schedule.
	task, ok := s.queue.Pop()
	if !ok {
		return false
	}
	s.metrics.RecordQueueDepth(s.queue.Len())

	s.runTask(ctx, task)
	return true
}

// Flush blocks until every task queued before the call has executed, by
// queueing a barrier task and waiting for it. The host must keep pumping
// for Flush to return; do not call it from the host thread itself.
//
// On an immediate-mode scheduler there is never anything queued and Flush
// returns right away.
func (s *Scheduler) Flush(ctx context.Context) error {
	if s.mode == ModeImmediate {
		return nil
	}

	done := make(chan struct{})
	s.Schedule(func(taskCtx context.Context) {
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runTask executes one task with panic containment and records the
// execution. The scheduler is installed in the task context so the task can
// re-schedule via GetCurrentScheduler.
func (s *Scheduler) runTask(ctx context.Context, task Task) {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx := context.WithValue(ctx, schedulerKey, s)

	start := time.Now()
	panicked := true

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.panicked.Add(1)
				s.metrics.RecordTaskPanic(r)
				s.logger.Error("task panicked", F("panic", r))
				s.panicHandler.HandlePanic(runCtx, r, debug.Stack())
			}
		}()
		task(runCtx)
		panicked = false
	}()

	duration := time.Since(start)
	s.executed.Add(1)
	s.metrics.RecordTaskDuration(duration)
	s.history.Add(TaskExecutionRecord{
		StartedAt:  start,
		FinishedAt: start.Add(duration),
		Duration:   duration,
		Panicked:   panicked,
	})
}

// =============================================================================
// Observability
// =============================================================================

// QueuedTaskCount returns the number of tasks waiting to be pumped.
func (s *Scheduler) QueuedTaskCount() int {
	return s.queue.Len()
}

// ExecutedTaskCount returns the total number of tasks executed so far,
// including ones that panicked.
func (s *Scheduler) ExecutedTaskCount() int64 {
	return s.executed.Load()
}

// Stats returns a point-in-time snapshot of the scheduler.
func (s *Scheduler) Stats() SchedulerStats {
	return SchedulerStats{
		Mode:     s.mode,
		Queued:   s.queue.Len(),
		Executed: s.executed.Load(),
		Panicked: s.panicked.Load(),
	}
}

// RecentExecutions returns up to limit recent execution records, newest
// first. Pass limit <= 0 for all retained records.
func (s *Scheduler) RecentExecutions(limit int) []TaskExecutionRecord {
	return s.history.Recent(limit)
}

// LastExecution returns the most recent execution record, if any.
func (s *Scheduler) LastExecution() (TaskExecutionRecord, bool) {
	return s.history.Last()
}
