// Package database provides the PostgreSQL pool and the quote store.
//
// Storage is best-effort relative to live-feed freshness:
//   - quotes is append-only (one row per published event)
//   - failed writes are logged by the caller and never retried
//   - the history query serves most-recent-first reads per ticker
package database
