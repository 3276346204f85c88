package core

import (
	"context"
	"sync"
	"testing"
)

// TestTaskQueue_FIFO verifies basic ordering
// Given: Tasks pushed in order
// When: Tasks are popped
// Then: They come back in the same order
func TestTaskQueue_FIFO(t *testing.T) {
	// Arrange
	q := newTaskQueue()

	var order []int
	for i := 0; i < 5; i++ {
		id := i
		q.Push(func(ctx context.Context) { order = append(order, id) })
	}

	// Act
	for !q.IsEmpty() {
		task, ok := q.Pop()
		if !ok {
			t.Fatal("Pop() = false with non-empty queue")
		}
		task(context.Background())
	}

	// Assert
	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d, want %d", i, got, i)
		}
	}
	if len(order) != 5 {
		t.Fatalf("len(order) = %d, want 5", len(order))
	}
}

// TestTaskQueue_PopEmpty verifies empty-queue behavior
func TestTaskQueue_PopEmpty(t *testing.T) {
	q := newTaskQueue()

	if task, ok := q.Pop(); ok || task != nil {
		t.Fatalf("Pop() on empty queue = (%v, %v), want (nil, false)", task, ok)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

// TestTaskQueue_Clear verifies Clear releases queued tasks
func TestTaskQueue_Clear(t *testing.T) {
	q := newTaskQueue()
	noop := func(ctx context.Context) {}

	for i := 0; i < 10; i++ {
		q.Push(noop)
	}
	q.Clear()

	if q.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", q.Len())
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() = true after Clear, want false")
	}
}

// TestTaskQueue_CompactionPreservesOrder verifies ordering across compaction
// Given: Enough pushes and pops to trigger the shrink compaction path
// When: Interleaved pushes continue
// Then: FIFO order is preserved throughout
func TestTaskQueue_CompactionPreservesOrder(t *testing.T) {
	// Arrange
	q := newTaskQueue()

	var order []int
	push := func(id int) {
		q.Push(func(ctx context.Context) { order = append(order, id) })
	}
	popAndRun := func() bool {
		task, ok := q.Pop()
		if ok {
			task(context.Background())
		}
		return ok
	}

	next := 0
	// Grow well past compactMinCap, then drain below cap/compactShrinkFactor.
	for ; next < 200; next++ {
		push(next)
	}
	for i := 0; i < 190; i++ {
		if !popAndRun() {
			t.Fatalf("pop %d: queue unexpectedly empty", i)
		}
	}

	// Interleave more work after the compaction window.
	for ; next < 230; next++ {
		push(next)
	}
	for popAndRun() {
	}

	// Assert
	if len(order) != 230 {
		t.Fatalf("executed %d tasks, want 230", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d, want %d", i, got, i)
		}
	}
}

// TestTaskQueue_ConcurrentPush verifies producer-side thread safety
// Given: Several goroutines pushing concurrently
// When: All finish
// Then: The queue holds every pushed task
func TestTaskQueue_ConcurrentPush(t *testing.T) {
	q := newTaskQueue()
	noop := func(ctx context.Context) {}

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				q.Push(noop)
			}
		}()
	}
	wg.Wait()

	if q.Len() != goroutines*perGoroutine {
		t.Fatalf("Len() = %d, want %d", q.Len(), goroutines*perGoroutine)
	}
}
