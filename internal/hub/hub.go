package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rickgao/ticker-data/internal/model"
)

// Hub is the shared broadcast point between venue supervisors and consumers.
// It is constructed once at startup and passed by reference to every task
// that needs it; tests construct their own instances.
type Hub struct {
	logger   *slog.Logger
	capacity int

	mu   sync.RWMutex
	subs map[uuid.UUID]*Subscription

	// Totals across all subscribers (atomic: publishers must not
	// serialize on a shared write lock)
	published atomic.Int64
	dropped   atomic.Int64
}

// Stats provides hub-wide statistics.
type Stats struct {
	Subscribers int
	Published   int64
	Dropped     int64
}

// New creates a hub. capacity is the per-subscriber queue size; a
// subscriber that falls more than capacity events behind starts losing its
// oldest undelivered events.
func New(capacity int, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Hub{
		logger:   logger,
		capacity: capacity,
		subs:     make(map[uuid.UUID]*Subscription),
	}
}

// Publish delivers an event to every current subscriber. It never blocks on
// a slow consumer: a full subscriber queue drops its oldest event to make
// room. Publishing with zero subscribers discards the event.
func (h *Hub) Publish(ev model.Event) {
	h.published.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.ring.Push(ev) {
			h.dropped.Add(1)
		}
	}
}

// Subscribe registers a new anonymous subscriber. The returned handle
// observes every event published after Subscribe returns, up to the
// drop-oldest policy of its bounded queue.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		id:   uuid.New(),
		hub:  h,
		ring: newDropRing[model.Event](h.capacity),
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.logger.Debug("subscriber added", "sub_id", sub.id)
	return sub
}

// Stats returns current hub statistics.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Subscribers: len(h.subs),
		Published:   h.published.Load(),
		Dropped:     h.dropped.Load(),
	}
}

// remove unregisters a subscriber.
func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()

	h.logger.Debug("subscriber removed", "sub_id", id)
}

// Subscription is an ephemeral handle held by one consumer. It carries no
// consumer identity beyond a random id used for log correlation.
type Subscription struct {
	id   uuid.UUID
	hub  *Hub
	ring *dropRing[model.Event]

	closeOnce sync.Once
}

// ID returns the subscription's identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Receive blocks until the next event is available or the subscription is
// closed. Returns false once closed and drained.
func (s *Subscription) Receive() (model.Event, bool) {
	return s.ring.Pop()
}

// TryReceive returns the next event without blocking.
func (s *Subscription) TryReceive() (model.Event, bool) {
	return s.ring.TryPop()
}

// Stats returns queue statistics for this subscriber.
func (s *Subscription) Stats() BufferStats {
	return s.ring.Stats()
}

// Close unregisters the subscriber and wakes any blocked Receive. Safe to
// call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s.id)
		s.ring.Close()
	})
}
