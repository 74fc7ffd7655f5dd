package model

import "time"

// PriceQuote is a single observed price for one asset.
type PriceQuote struct {
	Asset      string
	Price      float64
	ObservedAt time.Time
}

// Valid reports whether the quote carries a usable price. Non-positive
// prices are treated as invalid and discarded by consumers.
func (q PriceQuote) Valid() bool {
	return q.Price > 0
}

// PriceHistory is a sequence of quotes for one asset, ascending by time.
// It may be shorter than the length requested from the price source.
type PriceHistory []PriceQuote

// Valid returns the quotes with a positive price, preserving order.
func (h PriceHistory) Valid() PriceHistory {
	out := make(PriceHistory, 0, len(h))
	for _, q := range h {
		if q.Valid() {
			out = append(out, q)
		}
	}
	return out
}

// LastReturn computes the simple return over the two most recent valid
// quotes. ok is false when fewer than two valid quotes are available.
func (h PriceHistory) LastReturn() (ret float64, ok bool) {
	v := h.Valid()
	if len(v) < 2 {
		return 0, false
	}
	prev := v[len(v)-2].Price
	last := v[len(v)-1].Price
	return last/prev - 1, true
}
