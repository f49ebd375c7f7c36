// Package writer implements the persistence sink.
//
// The quote writer subscribes to the hub like any other consumer and
// appends one row per event. Writes are best-effort: a failed insert is
// logged and the event dropped, never retried, and ingestion is never
// blocked on storage availability.
package writer
