package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/ticker-data/internal/hub"
	"github.com/rickgao/ticker-data/internal/model"
)

// fakeStore serves canned history and a settable ping error.
type fakeStore struct {
	history   []model.Event
	lastQuery struct {
		ticker string
		limit  int
	}
	pingErr error
}

func (s *fakeStore) History(ctx context.Context, ticker string, limit int) ([]model.Event, error) {
	s.lastQuery.ticker = ticker
	s.lastQuery.limit = limit
	return s.history, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

func newTestServer(t *testing.T, h *hub.Hub, store *fakeStore) *httptest.Server {
	t.Helper()
	srv := New(h, store, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHistoryHandler(t *testing.T) {
	store := &fakeStore{history: []model.Event{
		{Ticker: "BTC/USD", Price: 102, Time: "2024-01-01T00:00:02Z"},
		{Ticker: "BTC/USD", Price: 101, Time: "2024-01-01T00:00:01Z"},
	}}
	ts := newTestServer(t, hub.New(10, nil), store)

	resp, err := http.Get(ts.URL + "/history?ticker=BTC/USD&limit=2")
	if err != nil {
		t.Fatalf("GET /history: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var events []model.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Price != 102 {
		t.Errorf("first event Price = %f, want 102 (newest first)", events[0].Price)
	}
	if store.lastQuery.ticker != "BTC/USD" || store.lastQuery.limit != 2 {
		t.Errorf("query = %+v, want ticker BTC/USD limit 2", store.lastQuery)
	}
}

func TestHistoryHandler_DefaultLimit(t *testing.T) {
	store := &fakeStore{}
	ts := newTestServer(t, hub.New(10, nil), store)

	resp, err := http.Get(ts.URL + "/history?ticker=XMR/USD")
	if err != nil {
		t.Fatalf("GET /history: %v", err)
	}
	resp.Body.Close()

	if store.lastQuery.limit != DefaultHistoryLimit {
		t.Errorf("limit = %d, want default %d", store.lastQuery.limit, DefaultHistoryLimit)
	}
}

func TestHistoryHandler_RequiresTicker(t *testing.T) {
	ts := newTestServer(t, hub.New(10, nil), &fakeStore{})

	resp, err := http.Get(ts.URL + "/history")
	if err != nil {
		t.Fatalf("GET /history: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthHandler(t *testing.T) {
	ts := newTestServer(t, hub.New(10, nil), &fakeStore{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	ts := newTestServer(t, hub.New(10, nil), &fakeStore{pingErr: errors.New("connection refused")})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWSHandler_ForwardsEvents(t *testing.T) {
	h := hub.New(10, nil)
	ts := newTestServer(t, h, &fakeStore{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	// Wait for the server-side subscription before publishing.
	waitForSubscribers(t, h, 1)

	want := model.Event{Ticker: "BTC/USD", Price: 101.0, Time: "2024-01-01T00:00:00Z"}
	h.Publish(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read forwarded event: %v", err)
	}

	var got model.Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("forwarded event is not JSON: %v", err)
	}
	if got != want {
		t.Errorf("forwarded event = %+v, want %+v", got, want)
	}
}

func TestWSHandler_DisconnectEndsSubscription(t *testing.T) {
	h := hub.New(10, nil)
	ts := newTestServer(t, h, &fakeStore{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}

	waitForSubscribers(t, h, 1)
	conn.Close()
	waitForSubscribers(t, h, 0)
}

func waitForSubscribers(t *testing.T, h *hub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Stats().Subscribers == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d hub subscribers (have %d)", n, h.Stats().Subscribers)
}
