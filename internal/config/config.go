package config

import "time"

// FeedConfig is the root configuration for a feed instance.
type FeedConfig struct {
	Instance    InstanceConfig    `yaml:"instance"`
	Venues      VenuesConfig      `yaml:"venues"`
	Connections ConnectionsConfig `yaml:"connections"`
	Hub         HubConfig         `yaml:"hub"`
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
}

// InstanceConfig identifies this feed process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// VenuesConfig holds one block per supported venue. Instrument lists are
// fixed at startup; there is no dynamic reconfiguration.
type VenuesConfig struct {
	Alpaca AlpacaVenueConfig `yaml:"alpaca"`
	Kraken KrakenVenueConfig `yaml:"kraken"`
}

// AlpacaVenueConfig holds the Alpaca quote stream settings.
type AlpacaVenueConfig struct {
	Enabled bool     `yaml:"enabled"`
	URL     string   `yaml:"url"`
	Key     string   `yaml:"key"`
	Secret  string   `yaml:"secret"`
	Symbols []string `yaml:"symbols"`
}

// KrakenVenueConfig holds the Kraken ticker stream settings.
type KrakenVenueConfig struct {
	Enabled bool     `yaml:"enabled"`
	URL     string   `yaml:"url"`
	Symbols []string `yaml:"symbols"`
}

// ConnectionsConfig holds timing knobs shared by all venue sessions.
type ConnectionsConfig struct {
	RetryDelay       time.Duration `yaml:"retry_delay"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// HubConfig holds fan-out settings.
type HubConfig struct {
	BufferSize int `yaml:"buffer_size"` // Per-subscriber queue capacity
}

// DatabaseConfig holds the PostgreSQL connection for persisted quotes.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ServerConfig holds the HTTP/WebSocket front door settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}
