package venue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rickgao/ticker-data/internal/model"
)

// KrakenConfig configures the Kraken v2 ticker stream.
type KrakenConfig struct {
	URL              string        // WebSocket URL (e.g. wss://ws.kraken.com/v2)
	Symbols          []string      // Fixed instrument list, set at startup
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

// Kraken streams ticker snapshots (last-trade price per symbol). The venue
// requires no authentication and supplies no per-update timestamp.
type Kraken struct {
	cfg KrakenConfig
}

// NewKraken creates the Kraken adapter.
func NewKraken(cfg KrakenConfig) *Kraken {
	return &Kraken{cfg: cfg}
}

// Name identifies the venue.
func (k *Kraken) Name() string {
	return "kraken"
}

// Connect dials the Kraken stream endpoint.
func (k *Kraken) Connect(ctx context.Context) (Session, error) {
	return dialSession(ctx, k.cfg.URL, k.cfg.HandshakeTimeout, k.cfg.WriteTimeout)
}

// Authenticate is a no-op: the public ticker channel needs no credentials.
func (k *Kraken) Authenticate(s Session) error {
	return nil
}

// krakenSubscribe is the v2 subscription request.
type krakenSubscribe struct {
	Method string                `json:"method"`
	Params krakenSubscribeParams `json:"params"`
}

type krakenSubscribeParams struct {
	Channel string   `json:"channel"`
	Symbol  []string `json:"symbol"`
}

// krakenTickerUpdate is a ticker channel message.
type krakenTickerUpdate struct {
	Channel string             `json:"channel"`
	Type    string             `json:"type"`
	Data    []krakenTickerData `json:"data"`
}

type krakenTickerData struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
}

// Subscribe requests the ticker channel for the configured symbols.
func (k *Kraken) Subscribe(s Session) error {
	data, err := json.Marshal(krakenSubscribe{
		Method: "subscribe",
		Params: krakenSubscribeParams{
			Channel: "ticker",
			Symbol:  k.cfg.Symbols,
		},
	})
	if err != nil {
		return err
	}
	return s.Send(data)
}

// Decode parses a ticker update. Heartbeats, status messages and method
// acks carry no ticker data and decode to zero events. The venue sends no
// timestamp, so normalization assigns the current wall-clock time.
func (k *Kraken) Decode(data []byte) []model.Event {
	var update krakenTickerUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil
	}

	events := make([]model.Event, 0, len(update.Data))
	for _, d := range update.Data {
		if d.Symbol == "" || d.Last <= 0 {
			continue
		}
		events = append(events, model.Event{
			Ticker: d.Symbol,
			Price:  d.Last,
			Time:   time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
	return events
}
