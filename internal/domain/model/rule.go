package model

import "math"

// TradeRule is the venue's quantization contract for one pair, sourced
// once from instrument metadata and assumed static for the process
// lifetime.
type TradeRule struct {
	StepSize       float64
	TickSize       float64
	QtyPrecision   int
	PricePrecision int
}

// RuleFromPrecision derives a TradeRule from venue precision digits:
// step = 10^-qtyPrecision, tick = 10^-pricePrecision.
func RuleFromPrecision(qtyPrecision, pricePrecision int) TradeRule {
	return TradeRule{
		StepSize:       math.Pow(10, -float64(qtyPrecision)),
		TickSize:       math.Pow(10, -float64(pricePrecision)),
		QtyPrecision:   qtyPrecision,
		PricePrecision: pricePrecision,
	}
}

// QuantizeQty floors the magnitude of qty to an integer multiple of the
// step size and rounds it to the quantity precision, preserving sign.
// Truncating the magnitude (rather than flooring the signed value) keeps
// a clamped sell from growing past the held amount. Quantizing an
// already-quantized quantity returns it unchanged.
func (r TradeRule) QuantizeQty(qty float64) float64 {
	if r.StepSize <= 0 {
		return 0
	}
	sign := 1.0
	if qty < 0 {
		sign = -1
	}
	steps := math.Floor(math.Abs(qty)/r.StepSize + 1e-9)
	return sign * roundTo(steps*r.StepSize, r.QtyPrecision)
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
