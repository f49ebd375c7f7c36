package venue

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsSession wraps a gorilla WebSocket connection as a Session.
type wsSession struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	// Write serialization (pong replies race with Send)
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// dialSession dials a venue WebSocket endpoint and installs the keepalive
// handler: server pings are answered with a pong carrying the same payload.
func dialSession(ctx context.Context, url string, handshakeTimeout, writeTimeout time.Duration) (Session, error) {
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	return &wsSession{
		conn:         conn,
		writeTimeout: writeTimeout,
	}, nil
}

// NextMessage reads the next text frame. Control frames are handled by the
// handlers gorilla invokes during the read; binary frames are skipped.
func (s *wsSession) NextMessage() ([]byte, error) {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

// Send writes a text frame with the configured write deadline.
func (s *wsSession) Send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame and tears down the connection. Safe to call
// more than once.
func (s *wsSession) Close() error {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
