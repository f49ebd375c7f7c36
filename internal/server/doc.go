// Package server is the HTTP/WebSocket front door.
//
// Routes:
//   - /ws      upgrades the client and forwards every hub event as JSON
//   - /history serves persisted quotes per ticker, newest first
//   - /health  reports database, hub and writer health
//
// The server never observes ingestion failures directly: a venue outage is
// just a gap in forwarded events.
package server
