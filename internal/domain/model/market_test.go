package model

import (
	"testing"
	"time"
)

func quote(price float64, offsetMin int) PriceQuote {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return PriceQuote{Asset: "BTC", Price: price, ObservedAt: base.Add(time.Duration(offsetMin) * time.Minute)}
}

func TestPriceHistoryValidDiscardsNonPositive(t *testing.T) {
	h := PriceHistory{quote(100, 0), quote(0, 1), quote(-5, 2), quote(102, 3)}
	v := h.Valid()
	if len(v) != 2 {
		t.Fatalf("expected 2 valid quotes, got %d", len(v))
	}
	if v[0].Price != 100 || v[1].Price != 102 {
		t.Errorf("valid quotes out of order: %v", v)
	}
}

func TestPriceHistoryLastReturn(t *testing.T) {
	h := PriceHistory{quote(100, 0), quote(102, 1)}
	ret, ok := h.LastReturn()
	if !ok {
		t.Fatal("expected a return from 2 valid quotes")
	}
	if ret < 0.0199 || ret > 0.0201 {
		t.Errorf("expected return ~0.02, got %v", ret)
	}
}

func TestPriceHistoryLastReturnTooShort(t *testing.T) {
	cases := []PriceHistory{
		nil,
		{},
		{quote(100, 0)},
		{quote(100, 0), quote(0, 1)}, // only one valid point
	}
	for i, h := range cases {
		if ret, ok := h.LastReturn(); ok || ret != 0 {
			t.Errorf("case %d: expected no return, got %v ok=%v", i, ret, ok)
		}
	}
}

func TestPriceHistoryLastReturnSkipsInvalidTail(t *testing.T) {
	// The invalid quote in the middle must not break the pairing.
	h := PriceHistory{quote(100, 0), quote(-1, 1), quote(110, 2)}
	ret, ok := h.LastReturn()
	if !ok {
		t.Fatal("expected a return")
	}
	if ret < 0.0999 || ret > 0.1001 {
		t.Errorf("expected return ~0.10, got %v", ret)
	}
}
