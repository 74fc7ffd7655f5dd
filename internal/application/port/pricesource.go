package port

import (
	"context"

	"momo/internal/domain/model"
)

// PriceSource supplies current and historical prices per asset.
type PriceSource interface {
	// LatestPrice returns the most recent price for one asset.
	LatestPrice(ctx context.Context, asset string) (float64, error)

	// History returns quotes ascending by time, at most limit entries
	// (all available when limit <= 0).
	History(ctx context.Context, asset, interval string, limit int) (model.PriceHistory, error)
}
