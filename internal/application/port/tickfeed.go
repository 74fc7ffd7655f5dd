package port

import "context"

// Tick is a single live price update from a streaming feed.
type Tick struct {
	Asset    string
	PriceStr string  // raw string as sent by the venue
	PriceNum float64 // parsed float64 (best-effort)
	Ts       int64   // unix ms
}

// TickFeed streams live prices for a set of assets.
type TickFeed interface {
	Name() string
	Subscribe(ctx context.Context, assets []string) (<-chan Tick, error)
}
