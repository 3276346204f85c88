// Package idlebridge bridges background goroutines to a host application's
// single privileged main thread.
//
// Many embedding APIs (plugin hosts, UI frameworks, scriptable
// applications) expose a privileged thread that outside code may only reach
// through an idle hook: the host periodically "goes idle" and invites
// registered callbacks to run. idlebridge gives producer goroutines a safe
// way to get work executed there: they schedule closures from any
// goroutine, and the host's idle callback pumps exactly one task per cycle.
//
// # Quick Start
//
// Create a scheduler wired to the host's idle-notification primitive and
// register its pump with the host's idle hook:
//
//	cfg := idlebridge.DefaultSchedulerConfig()
//	cfg.Notifier = core.IdleNotifierFunc(host.CauseIdleRoutinesToBeCalled)
//	scheduler := idlebridge.NewSchedulerWithConfig(cfg)
//
//	host.RegisterIdleHook(func() {
//		scheduler.Pump(ctx) // once per idle cycle
//	})
//
// Then submit work from any goroutine:
//
//	scheduler.Schedule(func(ctx context.Context) {
//		// runs on the host's main thread
//	})
//
//	future := idlebridge.ScheduleResult(scheduler, func(ctx context.Context) (int, error) {
//		return queryHostState(), nil
//	})
//	value, err := future.Wait(ctx)
//
// # Key Concepts
//
// Scheduler: the FIFO work queue plus its consumer pump. Producers never
// block; Pump runs at most one task per call so the host stays responsive.
// Tasks submitted by the same goroutine execute in submission order.
//
// Future: the result bridge for value-bearing tasks. Exactly one of the
// task's value, its error, or a *PanicError is delivered; retrieval blocks
// (with caller-supplied context) or polls via Done.
//
// ExecutionMode: deferred schedulers queue for the host pump; immediate
// schedulers run every submission synchronously on the caller, for contexts
// with no host idle loop.
//
// IdleLoop: a simulated host main thread for tests and headless embeddings,
// driving Pump once per idle cycle with out-of-band nudges.
//
// # Failure Containment
//
// A panicking fire-and-forget task never breaks the host's idle cycle: the
// pump contains it and reports through the configured PanicHandler, Logger
// and Metrics. Result-bearing tasks route failures through their Future
// instead.
package idlebridge
