package sim

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"momo/internal/domain/model"
)

// QuoteFunc resolves the fill price for one asset. The dry-run sink has
// no market of its own, so fills settle at whatever the price source says.
type QuoteFunc func(ctx context.Context, asset string) (float64, error)

// Sink is an in-memory execution venue for dry runs. It fills market
// orders instantly at the quoted price and keeps a wallet per asset.
type Sink struct {
	mu     sync.Mutex
	wallet map[string]float64
	rules  map[string]model.TradeRule
	quote  string
	price  QuoteFunc
	seq    int64
}

// NewSink seeds the wallet with cash in the quote currency and derives a
// default rule per basket pair the way the live venue would advertise it.
func NewSink(assets []string, quote string, initialCash float64, price QuoteFunc) *Sink {
	rules := make(map[string]model.TradeRule, len(assets))
	for _, asset := range assets {
		rules[model.Pair(asset, quote)] = model.RuleFromPrecision(4, 2)
	}
	return &Sink{
		wallet: map[string]float64{quote: initialCash},
		rules:  rules,
		quote:  quote,
		price:  price,
	}
}

func (s *Sink) Balances(ctx context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]float64, len(s.wallet))
	for asset, qty := range s.wallet {
		out[asset] = qty
	}
	return out, nil
}

func (s *Sink) TradeRules(ctx context.Context) (map[string]model.TradeRule, error) {
	out := make(map[string]model.TradeRule, len(s.rules))
	for pair, rule := range s.rules {
		out[pair] = rule
	}
	return out, nil
}

// PlaceOrder fills immediately. A nil price settles at the current quote;
// a non-nil price settles at that price, as a paper venue would.
func (s *Sink) PlaceOrder(ctx context.Context, pair string, side model.Side, quantity float64, price *float64) (model.OrderResult, error) {
	if quantity <= 0 {
		return model.OrderResult{}, fmt.Errorf("sim: non-positive quantity %v", quantity)
	}
	asset, _, ok := strings.Cut(pair, "/")
	if !ok {
		return model.OrderResult{}, fmt.Errorf("sim: malformed pair %q", pair)
	}

	fill := 0.0
	if price != nil {
		fill = *price
	} else {
		p, err := s.price(ctx, asset)
		if err != nil {
			return model.OrderResult{}, fmt.Errorf("sim: quote %s: %w", asset, err)
		}
		fill = p
	}
	if fill <= 0 {
		return model.OrderResult{}, fmt.Errorf("sim: no usable fill price for %s", pair)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notional := quantity * fill
	switch side {
	case model.SideBuy:
		if s.wallet[s.quote] < notional {
			return model.OrderResult{}, fmt.Errorf("sim: insufficient %s for %s buy", s.quote, pair)
		}
		s.wallet[s.quote] -= notional
		s.wallet[asset] += quantity
	case model.SideSell:
		if s.wallet[asset] < quantity {
			return model.OrderResult{}, fmt.Errorf("sim: insufficient %s for %s sell", asset, pair)
		}
		s.wallet[asset] -= quantity
		s.wallet[s.quote] += notional
	default:
		return model.OrderResult{}, fmt.Errorf("sim: unknown side %q", side)
	}

	s.seq++
	id := "sim-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatInt(s.seq, 10)
	log.Info().
		Str("pair", pair).
		Str("side", string(side)).
		Float64("quantity", quantity).
		Float64("fill", fill).
		Msg("dry-run fill")

	return model.OrderResult{OrderID: id, Status: "FILLED"}, nil
}
