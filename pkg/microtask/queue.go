// Package microtask provides a FIFO queue of deferred callbacks that run
// after the current synchronous work completes.
//
// Go has no ambient event loop, so whoever owns a Queue decides when
// "current synchronous work" is over and calls Drain. Draining runs tasks in
// the order they were scheduled, including tasks scheduled by tasks that
// are already running, until the queue is empty. There are no priorities
// and no cancellation.
package microtask

import (
	"log/slog"
	"sync"
)

// warnThreshold is the queue length at which Drain logs a warning about a
// probable scheduling loop.
const warnThreshold = 10000

// Queue is a FIFO run-to-completion task queue.
type Queue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{tasks: make([]func(), 0, 16)}
}

// Schedule appends fn to the queue.
func (q *Queue) Schedule(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs pending tasks until the queue is empty and returns how many
// ran. A Drain call made from inside a running task returns 0 immediately;
// the outer Drain picks up anything that task scheduled.
//
// If a task panics the panic propagates and the remaining tasks stay
// queued.
func (q *Queue) Drain() int {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return 0
	}
	q.draining = true
	if len(q.tasks) > warnThreshold {
		slog.Warn("microtask queue is very long, possible scheduling loop", "len", len(q.tasks))
	}
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			// Release the backing array after a burst.
			if cap(q.tasks) > 1024 {
				q.tasks = make([]func(), 0, 16)
			}
			q.mu.Unlock()
			return ran
		}
		t := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		t()
		ran++
	}
}
