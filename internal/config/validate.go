package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *FeedConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if !c.Venues.Alpaca.Enabled && !c.Venues.Kraken.Enabled {
		return errors.New("at least one venue must be enabled")
	}
	if c.Venues.Alpaca.Enabled {
		if c.Venues.Alpaca.Key == "" {
			return errors.New("venues.alpaca.key is required when alpaca is enabled")
		}
		if c.Venues.Alpaca.Secret == "" {
			return errors.New("venues.alpaca.secret is required when alpaca is enabled")
		}
		if len(c.Venues.Alpaca.Symbols) == 0 {
			return errors.New("venues.alpaca.symbols must not be empty")
		}
	}
	if c.Venues.Kraken.Enabled && len(c.Venues.Kraken.Symbols) == 0 {
		return errors.New("venues.kraken.symbols must not be empty")
	}

	if c.Connections.RetryDelay <= 0 {
		return errors.New("connections.retry_delay must be positive")
	}

	if c.Hub.BufferSize < 1 {
		return errors.New("hub.buffer_size must be >= 1")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
