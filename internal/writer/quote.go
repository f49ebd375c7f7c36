package writer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rickgao/ticker-data/internal/hub"
	"github.com/rickgao/ticker-data/internal/model"
)

// Store is the subset of the database store the writer needs.
type Store interface {
	InsertQuote(ctx context.Context, ev model.Event) error
}

// Metrics contains writer counters.
type Metrics struct {
	Inserts int64
	Errors  int64
}

// QuoteWriter consumes canonical events from a hub subscription and
// appends each to the quote store.
type QuoteWriter struct {
	store  Store
	logger *slog.Logger

	// Input from the hub
	sub *hub.Subscription

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	mu      sync.Mutex
	metrics Metrics
}

// NewQuoteWriter creates a writer over its own hub subscription.
func NewQuoteWriter(h *hub.Hub, store Store, logger *slog.Logger) *QuoteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteWriter{
		store:  store,
		logger: logger,
		sub:    h.Subscribe(),
	}
}

// Start begins consuming events and writing to the database.
func (w *QuoteWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.consumeLoop()

	w.logger.Info("quote writer started", "sub_id", w.sub.ID())
	return nil
}

// Stop gracefully shuts down the writer.
func (w *QuoteWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping quote writer")

	// Closing the subscription wakes the blocked Receive.
	w.sub.Close()
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("quote writer stopped")
	case <-ctx.Done():
		w.logger.Warn("quote writer stop timed out")
	}

	return nil
}

// Stats returns current metrics.
func (w *QuoteWriter) Stats() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// consumeLoop drains the subscription until it closes.
func (w *QuoteWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		ev, ok := w.sub.Receive()
		if !ok {
			return
		}
		w.write(ev)
	}
}

// write appends one event. Failure drops the event: durability is
// best-effort relative to live-feed freshness.
func (w *QuoteWriter) write(ev model.Event) {
	if err := w.store.InsertQuote(w.ctx, ev); err != nil {
		w.logger.Error("write failed, dropping event",
			"ticker", ev.Ticker,
			"error", err,
		)
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.metrics.Inserts++
	w.mu.Unlock()
}
