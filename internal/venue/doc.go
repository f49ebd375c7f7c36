// Package venue implements the per-venue ingestion path.
//
// Each external venue gets:
//   - An Adapter owning its wire protocol (handshake, subscription, parsing)
//   - A price-derivation policy reducing venue records to canonical events
//   - A Supervisor running the session in an infinite reconnect loop
//
// Venues are fully isolated from each other: a bad parse, auth failure or
// connection drop on one venue never reaches another venue or the hub.
// Unrecognized or malformed frames are expected venue noise and are
// discarded without error.
package venue
