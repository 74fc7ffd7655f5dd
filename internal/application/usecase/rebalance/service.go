package rebalance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"momo/internal/application/port"
	"momo/internal/domain/model"
	"momo/internal/domain/service"
)

// ServiceDeps wires the scheduler to its collaborators. Everything is
// injected; the service owns no I/O of its own.
type ServiceDeps struct {
	Prices   port.PriceSource
	Exchange port.ExecutionSink
	Repo     port.Repository

	Scorer   *service.MomentumScorer
	Governor *service.RiskGovernor
	Planner  *service.OrderPlanner

	Basket []string // asset identifiers, e.g. ["BTC", "ETH"]
	Quote  string   // quote currency, e.g. "USD"

	Interval        time.Duration
	HistoryInterval string
	HistoryLimit    int

	// Fallbacks maps asset -> static price substituted when the live
	// fetch fails. Assets without a fallback are dropped for the cycle.
	Fallbacks map[string]float64

	OrderRetries    int
	OrderRetryDelay time.Duration
}

// Service drives the fixed-interval rebalance loop:
// snapshot -> risk check -> scoring -> planning -> submission, forever.
type Service struct {
	deps  ServiceDeps
	rules map[string]model.TradeRule
}

func NewService(deps ServiceDeps) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 15 * time.Minute
	}
	if deps.HistoryInterval == "" {
		deps.HistoryInterval = "1h"
	}
	if deps.HistoryLimit < 2 {
		deps.HistoryLimit = 2
	}
	if deps.OrderRetries <= 0 {
		deps.OrderRetries = 3
	}
	if deps.OrderRetryDelay <= 0 {
		deps.OrderRetryDelay = 2 * time.Second
	}
	return &Service{deps: deps}
}

// Run loads the trade rules once, then ticks until the context is done.
// A rules fetch failure is the one fatal path; everything after enters
// the never-crash cycle loop.
func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Basket) == 0 {
		return errors.New("empty asset basket")
	}

	rules, err := s.deps.Exchange.TradeRules(ctx)
	if err != nil {
		return fmt.Errorf("load trade rules: %w", err)
	}
	s.rules = rules
	log.Info().Int("pairs", len(rules)).Msg("trade rules loaded")

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	s.runCycle(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.runCycle(ctx, now)
		}
	}
}

// observation is a typed price outcome so degradation paths are
// assertable, not just logged.
type observation struct {
	Price    float64
	Fallback bool
}

type cycleRecord struct {
	TotalValue float64            `json:"total_value"`
	Cash       float64            `json:"cash"`
	Peak       float64            `json:"peak"`
	TodayPnL   float64            `json:"today_pnl"`
	Prices     map[string]float64 `json:"prices"`
	Positions  map[string]float64 `json:"positions"`
	Halted     bool               `json:"halted"`
	HaltReason string             `json:"halt_reason,omitempty"`
}

// runCycle executes one rebalance pass. Every failure inside the cycle
// is absorbed here; the loop never dies on a single bad asset, response,
// or order.
func (s *Service) runCycle(ctx context.Context, now time.Time) {
	obs := s.fetchPrices(ctx)
	if len(obs) == 0 {
		log.Error().Msg("no prices available, skipping cycle")
		return
	}

	balances, err := s.deps.Exchange.Balances(ctx)
	if err != nil {
		log.Error().Err(err).Msg("balance fetch failed, skipping cycle")
		return
	}

	snap := s.buildSnapshot(balances, obs)
	total := snap.TotalValue()
	positions := snap.Positions()

	g := s.deps.Governor
	g.CalibratePeak(total)
	g.RecordEquity(now, total)

	decision := g.Check(total, positions)

	log.Info().
		Float64("total_value", total).
		Float64("cash", snap.Cash).
		Float64("peak", g.Peak()).
		Float64("today_pnl", g.TodayPnL()).
		Bool("allowed", decision.Allowed).
		Msg("cycle snapshot")

	s.journalCycle(ctx, now, snap, total, positions, decision)

	if !decision.Allowed {
		// Deliberate no-trade decision: skip scoring and planning and
		// wait for the next tick.
		log.Warn().Str("reason", decision.Reason).Msg("risk halt, no trading this cycle")
		return
	}

	signals := s.scoreAll(ctx, now, snap)
	intents := s.deps.Planner.Plan(signals, snap, s.rules)
	if len(intents) == 0 {
		log.Info().Msg("no orders this cycle")
		return
	}

	for _, intent := range intents {
		s.submit(ctx, now, intent)
	}
}

// fetchPrices observes one price per basket asset, substituting the
// configured static fallback when the live fetch fails. A single bad
// feed never stalls the cycle.
func (s *Service) fetchPrices(ctx context.Context) map[string]observation {
	out := make(map[string]observation, len(s.deps.Basket))
	for _, asset := range s.deps.Basket {
		price, err := s.deps.Prices.LatestPrice(ctx, asset)
		if err == nil && price > 0 {
			out[asset] = observation{Price: price}
			continue
		}
		fb := s.deps.Fallbacks[asset]
		if fb <= 0 {
			log.Error().Str("asset", asset).Err(err).Msg("price fetch failed and no fallback, dropping asset for this cycle")
			continue
		}
		log.Warn().Str("asset", asset).Err(err).Float64("fallback", fb).Msg("price fetch failed, using fallback")
		out[asset] = observation{Price: fb, Fallback: true}
	}
	return out
}

func (s *Service) buildSnapshot(balances map[string]float64, obs map[string]observation) model.PortfolioSnapshot {
	prices := make(map[string]float64, len(obs))
	for asset, o := range obs {
		prices[asset] = o.Price
	}
	holdings := make(map[string]float64, len(s.deps.Basket))
	for _, asset := range s.deps.Basket {
		if qty := balances[asset]; qty > 0 {
			holdings[asset] = qty
		}
	}
	return model.PortfolioSnapshot{
		Cash:     balances[s.deps.Quote],
		Holdings: holdings,
		Prices:   prices,
	}
}

// scoreAll scores every priced basket asset. Per-asset history failures
// degrade that asset's signal to zero and never abort the rest.
func (s *Service) scoreAll(ctx context.Context, now time.Time, snap model.PortfolioSnapshot) map[string]service.Signal {
	signals := make(map[string]service.Signal, len(s.deps.Basket))
	for _, asset := range s.deps.Basket {
		if snap.Prices[asset] <= 0 {
			signals[asset] = service.DegradedSignal(asset, "no price this cycle")
			continue
		}

		var sig service.Signal
		history, err := s.deps.Prices.History(ctx, asset, s.deps.HistoryInterval, s.deps.HistoryLimit)
		if err != nil {
			sig = service.DegradedSignal(asset, err.Error())
		} else {
			sig = s.deps.Scorer.Score(asset, history, snap.Cash)
		}
		signals[asset] = sig

		if sig.Degraded {
			log.Warn().Str("asset", asset).Str("reason", sig.Reason).Msg("no momentum signal")
			continue
		}
		log.Info().
			Str("asset", asset).
			Float64("return", sig.Return).
			Float64("target_usd", sig.TargetUSD).
			Msg("momentum target")
		if err := s.deps.Repo.InsertSignal(ctx, now.UnixMilli(), asset, sig.Return, sig.TargetUSD); err != nil {
			log.Warn().Err(err).Str("asset", asset).Msg("journal signal failed")
		}
	}
	return signals
}

// submit places one market order with bounded retries. A placement
// failure skips this intent and continues with the rest of the plan.
func (s *Service) submit(ctx context.Context, now time.Time, intent model.OrderIntent) {
	var res model.OrderResult
	var err error
	for attempt := 0; attempt < s.deps.OrderRetries; attempt++ {
		res, err = s.deps.Exchange.PlaceOrder(ctx, intent.Pair, intent.Side, intent.Quantity, nil)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.deps.OrderRetryDelay):
		}
	}

	status := res.Status
	if err != nil {
		status = "FAILED"
		log.Error().Err(err).
			Str("pair", intent.Pair).
			Str("side", string(intent.Side)).
			Float64("quantity", intent.Quantity).
			Msg("order placement failed")
	} else {
		log.Info().
			Str("pair", intent.Pair).
			Str("side", string(intent.Side)).
			Float64("quantity", intent.Quantity).
			Float64("notional", intent.Notional).
			Str("order_id", res.OrderID).
			Str("status", res.Status).
			Msg("order placed")
	}

	if jerr := s.deps.Repo.InsertOrder(ctx, now.UnixMilli(), intent.Pair, string(intent.Side),
		intent.Quantity, intent.Notional, status); jerr != nil {
		log.Warn().Err(jerr).Str("pair", intent.Pair).Msg("journal order failed")
	}
}

func (s *Service) journalCycle(ctx context.Context, now time.Time, snap model.PortfolioSnapshot,
	total float64, positions map[string]float64, decision service.Decision) {
	ts := now.UnixMilli()
	for asset, price := range snap.Prices {
		if err := s.deps.Repo.UpsertLatestPrice(ctx, asset, price, ts); err != nil {
			log.Warn().Err(err).Str("asset", asset).Msg("journal price failed")
		}
	}

	rec := cycleRecord{
		TotalValue: total,
		Cash:       snap.Cash,
		Peak:       s.deps.Governor.Peak(),
		TodayPnL:   s.deps.Governor.TodayPnL(),
		Prices:     snap.Prices,
		Positions:  positions,
		Halted:     !decision.Allowed,
		HaltReason: decision.Reason,
	}
	payload, _ := json.Marshal(rec)
	if err := s.deps.Repo.InsertCycle(ctx, ts, string(payload)); err != nil {
		log.Warn().Err(err).Msg("journal cycle failed")
	}
}
