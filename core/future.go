package core

import (
	"context"
	"fmt"
	"sync"
)

// =============================================================================
// PanicError: Task panic converted to an error
// =============================================================================

// PanicError is delivered through a Future when a result-bearing task
// panics instead of returning.
type PanicError struct {
	// Value is the value recovered from the panic.
	Value any

	// Stack is the stack trace captured at recovery time.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// =============================================================================
// Future: Producer-visible result bridge
// =============================================================================

// Future is the producer-visible half of the result bridge. The scheduler
// fulfills it exactly once (success value, task error, or *PanicError);
// the producer polls via Done or blocks via Wait.
//
// A Future is fulfilled by the consumer pump in deferred mode, or inline
// before the submission call returns in immediate mode. A task discarded at
// process exit leaves its Future unfulfilled; callers that cannot tolerate
// an unbounded wait should pass a context with a deadline to Wait.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete fulfills the future. Only the first call has any effect.
func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the task has completed or
// failed. Useful for polling or select-based waiting.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task completes or ctx is cancelled. After
// completion it returns the task's value, its error, or a *PanicError if
// the task panicked; repeated calls return the same outcome.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
