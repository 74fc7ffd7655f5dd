package service

import (
	"fmt"
	"time"
)

// RiskLimits is the immutable risk configuration handed to the governor
// at startup.
type RiskLimits struct {
	MaxDrawdown    float64 // fraction of peak equity, e.g. 0.10
	MaxPerAsset    float64 // fraction of total value, e.g. 0.35
	DailyLossLimit float64 // fraction of initial cash, e.g. 0.04
	InitialCash    float64
}

// Decision is the per-cycle trade gate outcome. A halt is a deliberate
// no-trade decision, not an error.
type Decision struct {
	Allowed bool
	Reason  string
}

// RiskGovernor holds the rolling risk state: the peak equity ratchet and
// the running daily P&L. State lives in memory only and is never reset
// mid-process. Not safe for concurrent use; the scheduler is
// single-threaded.
type RiskGovernor struct {
	limits     RiskLimits
	peak       float64
	todayPnL   float64
	dayOpen    float64
	day        time.Time // UTC midnight of the current accounting day
	calibrated bool
}

func NewRiskGovernor(limits RiskLimits) *RiskGovernor {
	return &RiskGovernor{limits: limits, peak: limits.InitialCash}
}

// Peak returns the highest total value ever observed.
func (g *RiskGovernor) Peak() float64 { return g.peak }

// TodayPnL returns the running P&L of the current UTC day.
func (g *RiskGovernor) TodayPnL() float64 { return g.todayPnL }

// CalibratePeak lowers the startup peak to the first observed total value
// when the account begins below the configured initial cash. Applied at
// most once, before the ratchet has moved.
func (g *RiskGovernor) CalibratePeak(totalValue float64) {
	if g.calibrated {
		return
	}
	g.calibrated = true
	if totalValue > 0 && totalValue < g.limits.InitialCash && g.peak == g.limits.InitialCash {
		g.peak = totalValue
	}
}

// RecordEquity accumulates today's P&L against the first equity mark of
// the UTC day. The mark resets at midnight UTC, which also resets the
// daily loss circuit breaker.
func (g *RiskGovernor) RecordEquity(now time.Time, totalValue float64) {
	day := now.UTC().Truncate(24 * time.Hour)
	if g.day.IsZero() || day.After(g.day) {
		g.day = day
		g.dayOpen = totalValue
	}
	g.todayPnL = totalValue - g.dayOpen
}

// Check gates one cycle. Checks run in a fixed order and the first
// failure halts trading for the cycle; remaining checks are skipped. The
// peak ratchet advances on every call that passes the validity guard,
// regardless of the outcome.
func (g *RiskGovernor) Check(totalValue float64, positions map[string]float64) Decision {
	if totalValue <= 0 || g.peak <= 0 {
		return Decision{Reason: "degenerate equity state, cannot assess risk"}
	}

	if totalValue > g.peak {
		g.peak = totalValue
	}
	if dd := (g.peak - totalValue) / g.peak; dd > g.limits.MaxDrawdown {
		return Decision{Reason: fmt.Sprintf("drawdown %.2f%% over %.0f%% limit", dd*100, g.limits.MaxDrawdown*100)}
	}

	for asset, value := range positions {
		if value/totalValue > g.limits.MaxPerAsset {
			return Decision{Reason: fmt.Sprintf("%s holds %.1f%% of portfolio, cap is %.0f%%",
				asset, value/totalValue*100, g.limits.MaxPerAsset*100)}
		}
	}

	if g.todayPnL < -g.limits.DailyLossLimit*g.limits.InitialCash {
		return Decision{Reason: fmt.Sprintf("daily loss %.0f beyond %.0f%% of initial capital",
			-g.todayPnL, g.limits.DailyLossLimit*100)}
	}

	return Decision{Allowed: true}
}
