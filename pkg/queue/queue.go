// Package queue provides the bounded blocking producer/consumer queue used as
// the ingestion transport in front of the matching engine and the tick
// processor. Producers may block or fail fast when the buffer is full; after
// Close, everything already accepted is still delivered before consumers see
// exhaustion, so no accepted item is silently lost.
package queue

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Push after Close, and by Pop once the queue is
	// both closed and fully drained.
	ErrClosed = errors.New("queue closed")
	// ErrFull is returned by TryPush when the buffer is at capacity.
	ErrFull = errors.New("queue full")
)

// Queue is a FIFO with a fixed capacity, safe for any number of producers and
// consumers.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    []T
	capacity int
	closed   bool
}

// New returns a queue holding at most capacity items. Capacity must be
// positive.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("queue: capacity must be positive")
	}
	q := &Queue[T]{capacity: capacity}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push enqueues item, blocking while the queue is full. It returns ErrClosed
// if the queue is closed before the item is accepted.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return nil
}

// TryPush enqueues item without blocking, returning ErrFull when at capacity
// or ErrClosed after shutdown.
func (q *Queue[T]) TryPush(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if len(q.items) >= q.capacity {
		return ErrFull
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return nil
}

// Pop dequeues the oldest item, blocking while the queue is empty. Once the
// queue is closed and drained it returns ErrClosed; buffered items are always
// delivered first.
func (q *Queue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, ErrClosed
	}
	item := q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return item, nil
}

// TryPop dequeues without blocking. ok is false when nothing is buffered.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return item, true
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops admissions and wakes every waiter. Safe to call more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
