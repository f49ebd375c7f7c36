package venue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rickgao/ticker-data/internal/model"
)

// AlpacaConfig configures the Alpaca crypto quote stream.
type AlpacaConfig struct {
	URL              string        // WebSocket URL (e.g. wss://stream.data.alpaca.markets/v1beta3/crypto/us)
	Key              string        // API key ID
	Secret           string        // API secret
	Symbols          []string      // Fixed instrument list, set at startup
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

// Alpaca streams quote updates (bid/ask pairs per symbol per tick).
type Alpaca struct {
	cfg AlpacaConfig
}

// NewAlpaca creates the Alpaca adapter.
func NewAlpaca(cfg AlpacaConfig) *Alpaca {
	return &Alpaca{cfg: cfg}
}

// Name identifies the venue.
func (a *Alpaca) Name() string {
	return "alpaca"
}

// Connect dials the Alpaca stream endpoint.
func (a *Alpaca) Connect(ctx context.Context) (Session, error) {
	return dialSession(ctx, a.cfg.URL, a.cfg.HandshakeTimeout, a.cfg.WriteTimeout)
}

// alpacaAuth is the in-band authentication message.
type alpacaAuth struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

// alpacaSubscribe requests quote updates for a set of symbols.
type alpacaSubscribe struct {
	Action string   `json:"action"`
	Quotes []string `json:"quotes"`
}

// alpacaQuote is one quote record on the wire.
type alpacaQuote struct {
	Symbol    string  `json:"S"`
	BidPrice  float64 `json:"bp"`
	AskPrice  float64 `json:"ap"`
	Timestamp string  `json:"t"`
}

// Authenticate sends the key/secret auth message.
func (a *Alpaca) Authenticate(s Session) error {
	data, err := json.Marshal(alpacaAuth{
		Action: "auth",
		Key:    a.cfg.Key,
		Secret: a.cfg.Secret,
	})
	if err != nil {
		return err
	}
	return s.Send(data)
}

// Subscribe requests quotes for the configured symbols.
func (a *Alpaca) Subscribe(s Session) error {
	data, err := json.Marshal(alpacaSubscribe{
		Action: "subscribe",
		Quotes: a.cfg.Symbols,
	})
	if err != nil {
		return err
	}
	return s.Send(data)
}

// Decode parses a frame as an array of quote records. Alpaca multiplexes
// control messages (connection acks, subscription confirms) on the same
// stream; those carry no symbol or positive prices and fall out of the
// normalization below. Frames that are not a JSON array are discarded.
func (a *Alpaca) Decode(data []byte) []model.Event {
	var quotes []alpacaQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil
	}

	events := make([]model.Event, 0, len(quotes))
	for _, q := range quotes {
		if ev, ok := normalizeQuote(q); ok {
			events = append(events, ev)
		}
	}
	return events
}

// normalizeQuote applies the quote-venue price policy: midpoint when both
// sides are positive, the positive side when only one is, no event when
// neither is. A record without a symbol is not a quote.
func normalizeQuote(q alpacaQuote) (model.Event, bool) {
	if q.Symbol == "" {
		return model.Event{}, false
	}

	var price float64
	switch {
	case q.BidPrice > 0 && q.AskPrice > 0:
		price = (q.BidPrice + q.AskPrice) / 2
	case q.BidPrice > 0:
		price = q.BidPrice
	case q.AskPrice > 0:
		price = q.AskPrice
	default:
		return model.Event{}, false
	}

	return model.Event{
		Ticker: q.Symbol,
		Price:  price,
		Time:   q.Timestamp,
	}, true
}
