package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAlpacaURL        = "wss://stream.data.alpaca.markets/v1beta3/crypto/us"
	DefaultKrakenURL        = "wss://ws.kraken.com/v2"
	DefaultRetryDelay       = 5 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultHubBufferSize    = 100
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultServerPort       = 3000
)

// Default instrument lists per venue.
var (
	DefaultAlpacaSymbols = []string{"BTC/USD", "ETH/USD", "LTC/USD"}
	DefaultKrakenSymbols = []string{"XMR/USD"}
)

func (c *FeedConfig) applyDefaults() {
	// Venue defaults
	if c.Venues.Alpaca.URL == "" {
		c.Venues.Alpaca.URL = DefaultAlpacaURL
	}
	if len(c.Venues.Alpaca.Symbols) == 0 {
		c.Venues.Alpaca.Symbols = DefaultAlpacaSymbols
	}
	if c.Venues.Kraken.URL == "" {
		c.Venues.Kraken.URL = DefaultKrakenURL
	}
	if len(c.Venues.Kraken.Symbols) == 0 {
		c.Venues.Kraken.Symbols = DefaultKrakenSymbols
	}

	// Connections defaults
	if c.Connections.RetryDelay == 0 {
		c.Connections.RetryDelay = DefaultRetryDelay
	}
	if c.Connections.HandshakeTimeout == 0 {
		c.Connections.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connections.WriteTimeout == 0 {
		c.Connections.WriteTimeout = DefaultWriteTimeout
	}

	// Hub defaults
	if c.Hub.BufferSize == 0 {
		c.Hub.BufferSize = DefaultHubBufferSize
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
