package service

import "momo/internal/domain/model"

// MomentumScorer converts recent price returns into a target exposure in
// quote currency.
type MomentumScorer struct {
	BasePerPercent float64 // dollars allocated per unit of return
	ReturnScale    float64 // extra multiplier applied to the return
}

// NewMomentumScorer creates a scorer. ReturnScale resolves the scaling
// ambiguity between target formulas observed in earlier strategy
// iterations; it defaults to 1 and must be set deliberately.
func NewMomentumScorer(basePerPercent, returnScale float64) *MomentumScorer {
	if returnScale <= 0 {
		returnScale = 1
	}
	return &MomentumScorer{BasePerPercent: basePerPercent, ReturnScale: returnScale}
}

// Signal is the scored outcome for one asset. A degraded signal carries a
// zero target so the asset exerts no trade pressure this cycle.
type Signal struct {
	Asset     string
	Return    float64
	TargetUSD float64
	Degraded  bool   // data was insufficient or fetching failed
	Reason    string // why the signal degraded, empty otherwise
}

// DegradedSignal is the zero-pressure outcome used when an asset's data
// cannot be scored. Scoring of the remaining assets proceeds regardless.
func DegradedSignal(asset, reason string) Signal {
	return Signal{Asset: asset, Degraded: true, Reason: reason}
}

// Score computes the target exposure for one asset. Fewer than two valid
// quotes yield a degraded zero target, not an error. The target is
// floored at -availableCash/2 so a falling asset cannot demand a notional
// short position beyond half of the cash on hand.
func (s *MomentumScorer) Score(asset string, history model.PriceHistory, availableCash float64) Signal {
	ret, ok := history.LastReturn()
	if !ok {
		return DegradedSignal(asset, "fewer than two valid price points")
	}
	target := ret * s.BasePerPercent * s.ReturnScale
	if floor := -availableCash * 0.5; target < floor {
		target = floor
	}
	return Signal{Asset: asset, Return: ret, TargetUSD: target}
}
