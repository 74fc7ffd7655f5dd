package model

// Pair builds the venue pair identifier for an asset against the quote
// currency, e.g. Pair("BTC", "USD") == "BTC/USD".
func Pair(asset, quote string) string {
	return asset + "/" + quote
}

// PortfolioSnapshot is the account state observed at the start of one
// cycle. Derived values are recomputed fresh every cycle, never cached.
type PortfolioSnapshot struct {
	Cash     float64            // quote-currency balance
	Holdings map[string]float64 // asset -> held quantity (free + locked)
	Prices   map[string]float64 // asset -> latest observed price
}

// PositionValue returns the quote-currency value of one asset's holding.
// Assets without a usable price are valued at zero.
func (s PortfolioSnapshot) PositionValue(asset string) float64 {
	qty := s.Holdings[asset]
	price := s.Prices[asset]
	if qty <= 0 || price <= 0 {
		return 0
	}
	return qty * price
}

// Positions returns the per-asset position values for every held asset
// with a known price.
func (s PortfolioSnapshot) Positions() map[string]float64 {
	out := make(map[string]float64, len(s.Holdings))
	for asset := range s.Holdings {
		if v := s.PositionValue(asset); v > 0 {
			out[asset] = v
		}
	}
	return out
}

// TotalValue is cash plus the sum of all position values.
func (s PortfolioSnapshot) TotalValue() float64 {
	total := s.Cash
	for asset := range s.Holdings {
		total += s.PositionValue(asset)
	}
	return total
}
