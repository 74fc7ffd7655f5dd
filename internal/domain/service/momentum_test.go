package service

import (
	"testing"
	"time"

	"momo/internal/domain/model"
)

func history(prices ...float64) model.PriceHistory {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	h := make(model.PriceHistory, 0, len(prices))
	for i, p := range prices {
		h = append(h, model.PriceQuote{Asset: "BTC", Price: p, ObservedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	return h
}

func TestScoreShortHistoryDegrades(t *testing.T) {
	s := NewMomentumScorer(10_000, 1)
	for _, h := range []model.PriceHistory{nil, history(100), history(100, -1)} {
		sig := s.Score("BTC", h, 100_000)
		if !sig.Degraded {
			t.Errorf("expected degraded signal for %v", h)
		}
		if sig.TargetUSD != 0 {
			t.Errorf("degraded signal must carry zero target, got %v", sig.TargetUSD)
		}
	}
}

func TestScoreSignFollowsReturn(t *testing.T) {
	s := NewMomentumScorer(10_000, 1)

	up := s.Score("BTC", history(100, 102), 1_000_000)
	if up.TargetUSD <= 0 {
		t.Errorf("positive return must yield positive target, got %v", up.TargetUSD)
	}
	if up.TargetUSD < 199 || up.TargetUSD > 201 {
		t.Errorf("2%% return at 10k/unit: expected ~200, got %v", up.TargetUSD)
	}

	down := s.Score("BTC", history(100, 99), 1_000_000)
	if down.TargetUSD >= 0 {
		t.Errorf("negative return must yield negative target, got %v", down.TargetUSD)
	}
}

func TestScoreFloorAtHalfCash(t *testing.T) {
	s := NewMomentumScorer(1_000_000, 1)
	// -50% return would demand -500k; with 10k cash the floor is -5k.
	sig := s.Score("BTC", history(100, 50), 10_000)
	if sig.TargetUSD != -5_000 {
		t.Errorf("expected floor at -5000, got %v", sig.TargetUSD)
	}
}

func TestScoreReturnScale(t *testing.T) {
	plain := NewMomentumScorer(10_000, 1)
	scaled := NewMomentumScorer(10_000, 100)

	h := history(100, 101)
	if got := plain.Score("BTC", h, 1e9).TargetUSD; got < 99 || got > 101 {
		t.Errorf("scale 1: expected ~100, got %v", got)
	}
	if got := scaled.Score("BTC", h, 1e9).TargetUSD; got < 9_999 || got > 10_001 {
		t.Errorf("scale 100: expected ~10000, got %v", got)
	}
}

func TestNewMomentumScorerDefaultsScale(t *testing.T) {
	s := NewMomentumScorer(10_000, 0)
	if s.ReturnScale != 1 {
		t.Errorf("expected default scale 1, got %v", s.ReturnScale)
	}
}
