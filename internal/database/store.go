package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/ticker-data/internal/model"
)

// Store persists canonical events and serves historical reads.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a store over an existing pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the quotes table and index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS quotes (
			id BIGSERIAL PRIMARY KEY,
			ticker TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			time TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create quotes table: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_quotes_ticker_time ON quotes (ticker, time)
	`)
	if err != nil {
		return fmt.Errorf("create quotes index: %w", err)
	}

	return nil
}

// InsertQuote appends one event as a new row.
func (s *Store) InsertQuote(ctx context.Context, ev model.Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO quotes (ticker, price, time)
		VALUES ($1, $2, $3)
	`, ev.Ticker, ev.Price, ev.Time)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// History returns the most recent events for a ticker, newest first.
func (s *Store) History(ctx context.Context, ticker string, limit int) ([]model.Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ticker, price, time
		FROM quotes
		WHERE ticker = $1
		ORDER BY id DESC
		LIMIT $2
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0, limit)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.Ticker, &ev.Price, &ev.Time); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}

	return events, nil
}

// Ping verifies the underlying connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
