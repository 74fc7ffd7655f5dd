package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["btc", "eth"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.IntervalSec != 900 {
		t.Errorf("interval_sec default: got %d", cfg.App.IntervalSec)
	}
	if cfg.App.Quote != "USD" {
		t.Errorf("quote default: got %q", cfg.App.Quote)
	}
	if cfg.Strategy.BasePerPercent != 100 {
		t.Errorf("base_per_percent default: got %v", cfg.Strategy.BasePerPercent)
	}
	if cfg.Strategy.ReturnScale != 1 {
		t.Errorf("return_scale default: got %v", cfg.Strategy.ReturnScale)
	}
	if cfg.Strategy.MinNotional != 500 {
		t.Errorf("min_notional default: got %v", cfg.Strategy.MinNotional)
	}
	if cfg.Risk.MaxDrawdown != 0.10 || cfg.Risk.MaxPerAsset != 0.35 || cfg.Risk.DailyLossLimit != 0.04 {
		t.Errorf("risk defaults: got %+v", cfg.Risk)
	}
	if cfg.Risk.CashBuffer != 0.995 {
		t.Errorf("cash_buffer default: got %v", cfg.Risk.CashBuffer)
	}
	if len(cfg.Storage.Drivers) != 1 || cfg.Storage.Drivers[0] != "sqlite" {
		t.Errorf("storage drivers default: got %v", cfg.Storage.Drivers)
	}
}

func TestLoadNormalizesSymbols(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = [" btc", "ETH", "btc", "", "sol "]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"BTC", "ETH", "SOL"}
	if len(cfg.Symbols.List) != len(want) {
		t.Fatalf("symbols: got %v want %v", cfg.Symbols.List, want)
	}
	for i := range want {
		if cfg.Symbols.List[i] != want[i] {
			t.Errorf("symbols[%d]: got %q want %q", i, cfg.Symbols.List[i], want[i])
		}
	}
}

func TestLoadRejectsEmptySymbols(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["", "  "]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty symbol list")
	}
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["BTC"]

[storage]
drivers = ["mongodb"]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["BTC"]

[storage]
drivers = ["postgres"]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing postgres DSN")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[app]
interval_sec = 60
dry_run = true
quote = "usd"

[symbols]
list = ["BTC", "ETH", "SOL"]

[strategy]
base_per_percent = 50
return_scale = 100
min_notional = 250
history_interval = "4h"
history_limit = 6

[risk]
max_drawdown = 0.2
max_per_asset = 0.4
daily_loss_limit = 0.05
initial_cash = 100000

[fallback.prices]
BTC = 68000.0
ETH = 3500.0

[storage]
drivers = ["sqlite", "redis"]
sqlite_path = "test.db"
redis_addr = "localhost:6379"

[tape]
enabled = true
ws_url = "ws://localhost:9101/ws"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.App.DryRun || cfg.App.IntervalSec != 60 {
		t.Errorf("app section: got %+v", cfg.App)
	}
	if cfg.App.Quote != "USD" {
		t.Errorf("quote not normalized: got %q", cfg.App.Quote)
	}
	if cfg.Strategy.ReturnScale != 100 || cfg.Strategy.HistoryLimit != 6 {
		t.Errorf("strategy section: got %+v", cfg.Strategy)
	}
	if cfg.Risk.InitialCash != 100000 {
		t.Errorf("initial_cash: got %v", cfg.Risk.InitialCash)
	}
	if cfg.Fallback.Prices["BTC"] != 68000 {
		t.Errorf("fallback prices: got %v", cfg.Fallback.Prices)
	}
	if len(cfg.Storage.Drivers) != 2 {
		t.Errorf("storage drivers: got %v", cfg.Storage.Drivers)
	}
	if !cfg.Tape.Enabled || cfg.Tape.WsURL == "" {
		t.Errorf("tape section: got %+v", cfg.Tape)
	}
}
