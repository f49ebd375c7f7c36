package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/ticker-data/internal/hub"
	"github.com/rickgao/ticker-data/internal/model"
	"github.com/rickgao/ticker-data/internal/writer"
)

// DefaultHistoryLimit caps /history responses when the caller sends none.
const DefaultHistoryLimit = 100

// clientWriteTimeout bounds how long a stuck client socket can hold a
// forwarder goroutine.
const clientWriteTimeout = 5 * time.Second

// HistoryStore is the subset of the database store the server needs.
type HistoryStore interface {
	History(ctx context.Context, ticker string, limit int) ([]model.Event, error)
	Ping(ctx context.Context) error
}

// Server exposes the live feed and the historical query surface.
type Server struct {
	hub    *hub.Hub
	store  HistoryStore
	writer *writer.QuoteWriter
	logger *slog.Logger

	upgrader websocket.Upgrader
}

// New creates a server. writer may be nil (tests).
func New(h *hub.Hub, store HistoryStore, qw *writer.QuoteWriter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:    h,
		store:  store,
		writer: qw,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Subscribers are anonymous; no origin policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// handleWS upgrades the client and forwards hub events until the client
// goes away. Each client gets its own hub subscription; a write failure
// ends it.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe()
	defer sub.Close()

	s.logger.Debug("client connected", "sub_id", sub.ID(), "remote", r.RemoteAddr)

	// Drain client frames so a close while idle also ends the
	// subscription, not just a failed write.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for {
		ev, ok := sub.Receive()
		if !ok {
			return
		}

		conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Debug("client disconnected", "sub_id", sub.ID(), "error", err)
			return
		}
	}
}

// handleHistory serves persisted quotes for one ticker, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}

	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.store.History(r.Context(), ticker, limit)
	if err != nil {
		s.logger.Error("history query failed", "ticker", ticker, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// handleHealth reports component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.store.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["postgres"] = map[string]string{
			"status": "disconnected",
			"error":  err.Error(),
		}
	} else {
		health.Components["postgres"] = "connected"
	}

	stats := s.hub.Stats()
	health.Components["hub"] = map[string]any{
		"subscribers": stats.Subscribers,
		"published":   stats.Published,
		"dropped":     stats.Dropped,
	}

	if s.writer != nil {
		ws := s.writer.Stats()
		health.Components["writer"] = map[string]any{
			"inserts": ws.Inserts,
			"errors":  ws.Errors,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}
