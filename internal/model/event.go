package model

// Event is a single normalized price update. It is the only type that
// crosses the venue boundary: every venue's wire format is reduced to this
// shape before publication, and it is never mutated afterward.
type Event struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
	Time   string  `json:"time"`
}
