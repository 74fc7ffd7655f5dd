package sim

import (
	"context"
	"strings"
	"testing"

	"momo/internal/domain/model"
)

func fixedQuote(price float64) QuoteFunc {
	return func(ctx context.Context, asset string) (float64, error) {
		return price, nil
	}
}

func TestBuyMovesCashToAsset(t *testing.T) {
	sink := NewSink([]string{"BTC"}, "USD", 50000, fixedQuote(68000))

	res, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.SideBuy, 0.5, nil)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if res.Status != "FILLED" {
		t.Errorf("status: got %q", res.Status)
	}
	if !strings.HasPrefix(res.OrderID, "sim-") {
		t.Errorf("order id: got %q", res.OrderID)
	}

	balances, _ := sink.Balances(context.Background())
	if balances["BTC"] != 0.5 {
		t.Errorf("BTC: got %v", balances["BTC"])
	}
	if balances["USD"] != 50000-0.5*68000 {
		t.Errorf("USD: got %v", balances["USD"])
	}
}

func TestSellRequiresInventory(t *testing.T) {
	sink := NewSink([]string{"BTC"}, "USD", 50000, fixedQuote(68000))

	if _, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.SideSell, 1, nil); err == nil {
		t.Fatal("expected insufficient inventory error")
	}
}

func TestBuyRequiresCash(t *testing.T) {
	sink := NewSink([]string{"BTC"}, "USD", 100, fixedQuote(68000))

	if _, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.SideBuy, 1, nil); err == nil {
		t.Fatal("expected insufficient cash error")
	}
}

func TestRoundTripRestoresCash(t *testing.T) {
	sink := NewSink([]string{"ETH"}, "USD", 10000, fixedQuote(2500))

	if _, err := sink.PlaceOrder(context.Background(), "ETH/USD", model.SideBuy, 2, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := sink.PlaceOrder(context.Background(), "ETH/USD", model.SideSell, 2, nil); err != nil {
		t.Fatal(err)
	}

	balances, _ := sink.Balances(context.Background())
	if balances["USD"] != 10000 {
		t.Errorf("USD after round trip: got %v", balances["USD"])
	}
	if balances["ETH"] != 0 {
		t.Errorf("ETH after round trip: got %v", balances["ETH"])
	}
}

func TestLimitOrderFillsAtGivenPrice(t *testing.T) {
	sink := NewSink([]string{"BTC"}, "USD", 70000, fixedQuote(68000))

	price := 65000.0
	if _, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.SideBuy, 1, &price); err != nil {
		t.Fatal(err)
	}

	balances, _ := sink.Balances(context.Background())
	if balances["USD"] != 5000 {
		t.Errorf("USD: got %v, limit price not honored", balances["USD"])
	}
}

func TestTradeRulesCoverBasket(t *testing.T) {
	sink := NewSink([]string{"BTC", "ETH"}, "USD", 0, fixedQuote(1))

	rules, err := sink.TradeRules(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, pair := range []string{"BTC/USD", "ETH/USD"} {
		rule, ok := rules[pair]
		if !ok {
			t.Fatalf("rule missing for %s", pair)
		}
		if rule.StepSize != 0.0001 {
			t.Errorf("%s step: got %v", pair, rule.StepSize)
		}
	}
}

func TestRejectsMalformedInput(t *testing.T) {
	sink := NewSink([]string{"BTC"}, "USD", 1000, fixedQuote(10))

	if _, err := sink.PlaceOrder(context.Background(), "BTCUSD", model.SideBuy, 1, nil); err == nil {
		t.Error("expected error for malformed pair")
	}
	if _, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.SideBuy, 0, nil); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := sink.PlaceOrder(context.Background(), "BTC/USD", model.Side("HOLD"), 1, nil); err == nil {
		t.Error("expected error for unknown side")
	}
}
