package venue

import (
	"context"
	"time"

	"github.com/rickgao/ticker-data/internal/model"
)

// Default session timeouts, shared by all venues.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
)

// Session is one live streaming connection to a venue. It exists for the
// duration of a single connection; supervisors discard it on any failure
// and build a fresh one. No state survives across sessions.
type Session interface {
	// NextMessage blocks until the next text frame arrives. Keepalive
	// probes are answered transparently and never surface here. A read
	// error or a clean remote close is returned as an error.
	NextMessage() ([]byte, error)

	// Send writes a text frame to the venue.
	Send(data []byte) error

	// Close tears the connection down.
	Close() error
}

// Adapter owns the wire protocol for exactly one venue. The Supervisor
// state machine is written once against this interface.
type Adapter interface {
	// Name identifies the venue in logs.
	Name() string

	// Connect dials the venue endpoint.
	Connect(ctx context.Context) (Session, error)

	// Authenticate performs the venue's auth handshake on a fresh
	// session. Venues without authentication implement it as a no-op.
	Authenticate(s Session) error

	// Subscribe requests the venue's fixed instrument list.
	Subscribe(s Session) error

	// Decode parses one text frame into zero or more canonical events,
	// applying the venue's price-derivation policy. Frames that match no
	// known record shape decode to zero events.
	Decode(data []byte) []model.Event
}
