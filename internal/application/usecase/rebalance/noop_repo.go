package rebalance

import (
	"context"

	"momo/internal/application/port"
)

type noopRepo struct{}

// NewNoopRepo returns a journal that discards everything, for runs with
// storage disabled.
func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertLatestPrice(ctx context.Context, asset string, price float64, ts int64) error {
	return nil
}
func (n *noopRepo) InsertCycle(ctx context.Context, ts int64, payload string) error {
	return nil
}
func (n *noopRepo) InsertSignal(ctx context.Context, ts int64, asset string, ret, targetUSD float64) error {
	return nil
}
func (n *noopRepo) InsertOrder(ctx context.Context, ts int64, pair, side string, quantity, notional float64, status string) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }
