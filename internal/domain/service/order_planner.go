package service

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"momo/internal/domain/model"
)

// OrderPlanner reconciles target exposures against current holdings,
// cash, and venue quantization rules into concrete order intents.
type OrderPlanner struct {
	MaxPerAsset float64 // concentration cap as fraction of total value
	CashBuffer  float64 // fraction of cash spendable on one buy, e.g. 0.995
	MinNotional float64 // quote-currency dust threshold
	Quote       string  // quote currency, e.g. "USD"
}

func NewOrderPlanner(maxPerAsset, cashBuffer, minNotional float64, quote string) *OrderPlanner {
	if cashBuffer <= 0 || cashBuffer > 1 {
		cashBuffer = 0.995
	}
	return &OrderPlanner{
		MaxPerAsset: maxPerAsset,
		CashBuffer:  cashBuffer,
		MinNotional: minNotional,
		Quote:       quote,
	}
}

// Plan sizes at most one order per asset with a nonzero target. Assets
// are processed independently in sorted order; an asset missing its
// trade rule or price is skipped without blocking the rest.
func (p *OrderPlanner) Plan(signals map[string]Signal, snap model.PortfolioSnapshot, rules map[string]model.TradeRule) []model.OrderIntent {
	total := snap.TotalValue()

	assets := make([]string, 0, len(signals))
	for asset := range signals {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var intents []model.OrderIntent
	for _, asset := range assets {
		sig := signals[asset]
		if sig.TargetUSD == 0 {
			continue
		}
		if intent, ok := p.planOne(asset, sig.TargetUSD, total, snap, rules); ok {
			intents = append(intents, intent)
		}
	}
	return intents
}

func (p *OrderPlanner) planOne(asset string, targetUSD, total float64, snap model.PortfolioSnapshot, rules map[string]model.TradeRule) (model.OrderIntent, bool) {
	price := snap.Prices[asset]
	if price <= 0 {
		log.Warn().Str("asset", asset).Msg("no usable price, skipping")
		return model.OrderIntent{}, false
	}

	pair := model.Pair(asset, p.Quote)
	rule, ok := rules[pair]
	if !ok {
		// Never submit an unquantized order.
		log.Error().Str("pair", pair).Msg("no trade rule for pair, skipping")
		return model.OrderIntent{}, false
	}

	current := snap.PositionValue(asset)
	diff := targetUSD - current

	// Concentration clamp: never push the post-trade share over the cap.
	if limit := p.MaxPerAsset * total; current+diff > limit {
		diff = limit - current
	}

	// Cash guard: a buy may not spend past the buffered cash.
	if diff > 0 {
		if maxBuy := snap.Cash * p.CashBuffer; diff > maxBuy {
			diff = maxBuy
		}
	}

	qty := diff / price

	// Inventory guard: a sell may not exceed the held quantity.
	if diff < 0 {
		if held := snap.Holdings[asset]; math.Abs(qty) > held {
			qty = -held
		}
	}

	qty = rule.QuantizeQty(qty)

	notional := math.Abs(diff)
	if notional <= p.MinNotional || qty == 0 {
		return model.OrderIntent{}, false
	}

	side := model.SideBuy
	if qty < 0 {
		side = model.SideSell
	}
	return model.OrderIntent{
		Pair:     pair,
		Side:     side,
		Quantity: math.Abs(qty),
		Notional: notional,
	}, true
}
