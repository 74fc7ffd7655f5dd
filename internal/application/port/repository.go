package port

import "context"

// Repository is the write-only trade journal. It is observability, not
// recovered state: risk state stays in memory only.
type Repository interface {
	// Price operations
	UpsertLatestPrice(ctx context.Context, asset string, price float64, ts int64) error

	// Cycle operations
	InsertCycle(ctx context.Context, ts int64, payload string) error

	// Signal operations
	InsertSignal(ctx context.Context, ts int64, asset string, ret, targetUSD float64) error

	// Order operations
	InsertOrder(ctx context.Context, ts int64, pair, side string, quantity, notional float64, status string) error

	// Connection management
	Close() error
}
