package core

import "sync"

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// taskQueue is the FIFO queue at the heart of the scheduler. The mutex is
// held only for O(1) push/pop, never across task execution, so a running
// task can safely re-enqueue without deadlocking.
type taskQueue struct {
	mu    sync.Mutex
	tasks []Task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks: make([]Task, 0, defaultQueueCap),
	}
}

func (q *taskQueue) Push(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the task at the head of the queue.
// The caller runs the task after the lock is released (pop-then-run).
func (q *taskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	task := q.tasks[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	q.maybeCompactLocked()

	return task, true
}

// maybeCompactLocked reallocates the backing array when the live window has
// shrunk well below capacity. Slicing off the head (q.tasks = q.tasks[1:])
// pins the whole array otherwise.
func (q *taskQueue) maybeCompactLocked() {
	n := len(q.tasks)
	c := cap(q.tasks)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.tasks = make([]Task, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]Task, n, newCap)
	copy(newSlice, q.tasks)
	q.tasks = newSlice
}

func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *taskQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Clear removes all tasks from the queue and releases references.
func (q *taskQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = make([]Task, 0, defaultQueueCap)
}
