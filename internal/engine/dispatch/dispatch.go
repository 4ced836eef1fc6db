// Package dispatch schedules callbacks onto the render loop.
//
// Loader goroutines and network handlers never touch scene state directly.
// They Post a callback, and the loop runs it during the next Drain.
package dispatch

import "sync"

// Queue is a goroutine-safe FIFO of callbacks drained by the loop.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post schedules fn to run on the loop. It reports false for a nil callback.
// Safe to call from any goroutine.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	return true
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs every callback queued so far in posting order and returns how
// many ran. Callbacks posted while draining run on the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	callbacks := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks)
}
