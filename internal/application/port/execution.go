package port

import (
	"context"

	"momo/internal/domain/model"
)

// ExecutionSink supplies account state and order routing for one venue.
type ExecutionSink interface {
	// Balances returns free+locked quantity per asset, quote currency
	// included.
	Balances(ctx context.Context) (map[string]float64, error)

	// TradeRules returns the quantization rules per pair. Fetched once at
	// startup; rules are assumed static for the process lifetime.
	TradeRules(ctx context.Context) (map[string]model.TradeRule, error)

	// PlaceOrder submits an order. A nil price places a MARKET order.
	PlaceOrder(ctx context.Context, pair string, side model.Side, quantity float64, price *float64) (model.OrderResult, error)
}
