// Package model defines the canonical price event shared across the feed.
//
// Conventions:
//   - Tickers: venue-agnostic instrument identifiers (e.g. "BTC/USD")
//   - Prices: float64 dollars, always > 0 once normalized
//   - Timestamps: ISO-8601 strings, venue-supplied or assigned at normalization
package model
