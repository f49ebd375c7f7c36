// Package hub implements the process-wide fan-out point for normalized events.
//
// The hub:
//   - Accepts concurrent publishes from every venue supervisor
//   - Fans each event out to all current subscribers
//   - Gives each subscriber its own bounded queue (drop-oldest on overflow)
//   - Never blocks a publisher on a slow or absent consumer
//
// Delivery is at-most-once, best-effort: an event published with no
// subscribers is dropped, and a subscriber that stops draining loses its
// oldest events first. Staleness is worse than a gap for a live feed.
package hub
