package model

import "testing"

func TestSnapshotTotalValue(t *testing.T) {
	snap := PortfolioSnapshot{
		Cash:     50_000,
		Holdings: map[string]float64{"BTC": 0.5, "ETH": 10},
		Prices:   map[string]float64{"BTC": 60_000, "ETH": 3_000},
	}
	if got := snap.TotalValue(); got != 110_000 {
		t.Errorf("expected 110000, got %v", got)
	}
	if got := snap.PositionValue("BTC"); got != 30_000 {
		t.Errorf("BTC position: expected 30000, got %v", got)
	}
}

func TestSnapshotUnpricedHoldingValuedZero(t *testing.T) {
	snap := PortfolioSnapshot{
		Cash:     1_000,
		Holdings: map[string]float64{"DOGE": 5_000},
		Prices:   map[string]float64{},
	}
	if got := snap.TotalValue(); got != 1_000 {
		t.Errorf("expected 1000, got %v", got)
	}
	if got := len(snap.Positions()); got != 0 {
		t.Errorf("expected no priced positions, got %d", got)
	}
}

func TestPair(t *testing.T) {
	if got := Pair("BTC", "USD"); got != "BTC/USD" {
		t.Errorf("got %q", got)
	}
}
