package model

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderIntent is a sized, quantized order produced by the planner.
// Intents are constructed and consumed within one cycle.
type OrderIntent struct {
	Pair     string
	Side     Side
	Quantity float64 // positive, already quantized to the pair's step size
	Notional float64 // positive, quote-currency value of the rebalance delta
}

// OrderResult is the venue's acknowledgement of a placed order.
type OrderResult struct {
	OrderID string
	Status  string
}
