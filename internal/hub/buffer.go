package hub

import (
	"sync"
)

// dropRing is a thread-safe ring buffer with a fixed capacity. When full,
// Push evicts the oldest unconsumed item instead of blocking the caller or
// growing the buffer.
type dropRing[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []T
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	closed   bool

	// Stats
	totalPushed  int64
	totalPopped  int64
	totalDropped int64
}

// newDropRing creates a ring with the given capacity.
func newDropRing[T any](capacity int) *dropRing[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &dropRing[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Push adds an item, evicting the oldest item if the ring is full.
// Returns true if an item was evicted. Pushing to a closed ring is a no-op.
func (r *dropRing[T]) Push(item T) (dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	if r.count == r.capacity {
		// Evict oldest
		var zero T
		r.buf[r.head] = zero
		r.head = (r.head + 1) % r.capacity
		r.count--
		r.totalDropped++
		dropped = true
	}

	r.buf[r.tail] = item
	r.tail = (r.tail + 1) % r.capacity
	r.count++
	r.totalPushed++

	r.cond.Signal()
	return dropped
}

// Pop removes and returns the oldest item. Blocks until an item is
// available or the ring is closed. Returns zero value and false once the
// ring is closed and drained.
func (r *dropRing[T]) Pop() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.count == 0 && !r.closed {
		r.cond.Wait()
	}

	if r.count == 0 {
		var zero T
		return zero, false
	}

	item := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero // Clear reference for GC
	r.head = (r.head + 1) % r.capacity
	r.count--
	r.totalPopped++

	return item, true
}

// TryPop attempts to pop without blocking.
func (r *dropRing[T]) TryPop() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		var zero T
		return zero, false
	}

	item := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero
	r.head = (r.head + 1) % r.capacity
	r.count--
	r.totalPopped++

	return item, true
}

// Close closes the ring. After closing, Push is a no-op and Pop drains
// remaining items before reporting closed.
func (r *dropRing[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.cond.Broadcast()
}

// Len returns the current number of buffered items.
func (r *dropRing[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Stats returns ring statistics.
func (r *dropRing[T]) Stats() BufferStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return BufferStats{
		Count:        r.count,
		Capacity:     r.capacity,
		TotalPushed:  r.totalPushed,
		TotalPopped:  r.totalPopped,
		TotalDropped: r.totalDropped,
	}
}

// BufferStats contains per-subscriber queue statistics.
type BufferStats struct {
	Count        int
	Capacity     int
	TotalPushed  int64
	TotalPopped  int64
	TotalDropped int64
}
