package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/rickgao/ticker-data/internal/model"
)

func TestHub_PublishWithNoSubscribers(t *testing.T) {
	h := New(10, nil)

	// Must not block or panic; the event is simply dropped.
	h.Publish(model.Event{Ticker: "BTC/USD", Price: 100, Time: "2024-01-01T00:00:00Z"})

	stats := h.Stats()
	if stats.Subscribers != 0 {
		t.Errorf("Subscribers = %d, want 0", stats.Subscribers)
	}
	if stats.Published != 1 {
		t.Errorf("Published = %d, want 1", stats.Published)
	}
}

func TestHub_OrderPreserved(t *testing.T) {
	h := New(100, nil)
	sub := h.Subscribe()
	defer sub.Close()

	const n = 50
	for i := 0; i < n; i++ {
		h.Publish(model.Event{Ticker: "ETH/USD", Price: float64(i + 1), Time: "2024-01-01T00:00:00Z"})
	}

	for i := 0; i < n; i++ {
		ev, ok := sub.Receive()
		if !ok {
			t.Fatalf("Receive() closed early at event %d", i)
		}
		if ev.Price != float64(i+1) {
			t.Errorf("event %d: Price = %f, want %f", i, ev.Price, float64(i+1))
		}
	}
}

func TestHub_SubscriberSeesOnlyLaterEvents(t *testing.T) {
	h := New(10, nil)

	h.Publish(model.Event{Ticker: "BTC/USD", Price: 1})

	sub := h.Subscribe()
	defer sub.Close()

	h.Publish(model.Event{Ticker: "BTC/USD", Price: 2})

	ev, ok := sub.TryReceive()
	if !ok {
		t.Fatal("TryReceive() = closed, want event published after subscribe")
	}
	if ev.Price != 2 {
		t.Errorf("Price = %f, want 2 (pre-subscribe event must not be delivered)", ev.Price)
	}
	if _, ok := sub.TryReceive(); ok {
		t.Error("TryReceive() returned a second event, want empty queue")
	}
}

func TestHub_SlowConsumerDoesNotBlockOthers(t *testing.T) {
	h := New(5, nil)

	slow := h.Subscribe()
	defer slow.Close()
	fast := h.Subscribe()
	defer fast.Close()

	// Publish more than the slow consumer's queue can hold. Publish must
	// complete without anyone draining.
	done := make(chan struct{})
	go func() {
		for i := 1; i <= 20; i++ {
			h.Publish(model.Event{Ticker: "XMR/USD", Price: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on an undrained subscriber")
	}

	// The fast consumer still has capacity-bounded but fresh data; since it
	// also never drained during publishing, it keeps the newest 5.
	for _, want := range []float64{16, 17, 18, 19, 20} {
		ev, ok := fast.Receive()
		if !ok {
			t.Fatal("Receive() closed early")
		}
		if ev.Price != want {
			t.Errorf("fast consumer got price %f, want %f", ev.Price, want)
		}
	}

	if got := slow.Stats().TotalDropped; got != 15 {
		t.Errorf("slow consumer TotalDropped = %d, want 15", got)
	}
}

func TestHub_CloseUnsubscribes(t *testing.T) {
	h := New(10, nil)
	sub := h.Subscribe()

	if got := h.Stats().Subscribers; got != 1 {
		t.Fatalf("Subscribers = %d, want 1", got)
	}

	sub.Close()
	sub.Close() // idempotent

	if got := h.Stats().Subscribers; got != 0 {
		t.Errorf("Subscribers = %d after Close, want 0", got)
	}
	if _, ok := sub.Receive(); ok {
		t.Error("Receive() after Close should report closed")
	}

	// Later publishes no longer reach the closed subscription.
	h.Publish(model.Event{Ticker: "BTC/USD", Price: 1})
	if _, ok := sub.TryReceive(); ok {
		t.Error("closed subscription received a new event")
	}
}

func TestHub_ConcurrentPublishers(t *testing.T) {
	h := New(1000, nil)
	sub := h.Subscribe()
	defer sub.Close()

	const venues = 4
	const perVenue = 100

	for v := 0; v < venues; v++ {
		go func(v int) {
			ticker := fmt.Sprintf("V%d/USD", v)
			for i := 0; i < perVenue; i++ {
				h.Publish(model.Event{Ticker: ticker, Price: float64(i + 1)})
			}
		}(v)
	}

	// Per-venue order must hold even with interleaved publishers.
	lastSeen := make(map[string]float64)
	for i := 0; i < venues*perVenue; i++ {
		ev, ok := sub.Receive()
		if !ok {
			t.Fatal("Receive() closed early")
		}
		if ev.Price <= lastSeen[ev.Ticker] {
			t.Fatalf("venue %s out of order: %f after %f", ev.Ticker, ev.Price, lastSeen[ev.Ticker])
		}
		lastSeen[ev.Ticker] = ev.Price
	}
}
