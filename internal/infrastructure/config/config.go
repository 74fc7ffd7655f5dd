package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		IntervalSec int    `toml:"interval_sec"`
		DryRun      bool   `toml:"dry_run"`
		Quote       string `toml:"quote"`
	} `toml:"app"`

	Symbols struct {
		List []string `toml:"list"`
	} `toml:"symbols"`

	Strategy struct {
		BasePerPercent  float64 `toml:"base_per_percent"`
		ReturnScale     float64 `toml:"return_scale"`
		MinNotional     float64 `toml:"min_notional"`
		HistoryInterval string  `toml:"history_interval"`
		HistoryLimit    int     `toml:"history_limit"`
	} `toml:"strategy"`

	Risk struct {
		MaxDrawdown    float64 `toml:"max_drawdown"`
		MaxPerAsset    float64 `toml:"max_per_asset"`
		DailyLossLimit float64 `toml:"daily_loss_limit"`
		InitialCash    float64 `toml:"initial_cash"`
		CashBuffer     float64 `toml:"cash_buffer"`
	} `toml:"risk"`

	Horus struct {
		BaseURL string `toml:"base_url"`
	} `toml:"horus"`

	Roostoo struct {
		BaseURL string `toml:"base_url"`
	} `toml:"roostoo"`

	Fallback struct {
		Prices map[string]float64 `toml:"prices"`
	} `toml:"fallback"`

	Storage struct {
		Drivers     []string `toml:"drivers"`
		SQLitePath  string   `toml:"sqlite_path"`
		PostgresDSN string   `toml:"postgres_dsn"`
		RedisAddr   string   `toml:"redis_addr"`
	} `toml:"storage"`

	Tape struct {
		Enabled bool   `toml:"enabled"`
		WsURL   string `toml:"ws_url"`
	} `toml:"tape"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.IntervalSec <= 0 {
		cfg.App.IntervalSec = 900
	}
	if strings.TrimSpace(cfg.App.Quote) == "" {
		cfg.App.Quote = "USD"
	}
	if cfg.Strategy.BasePerPercent <= 0 {
		cfg.Strategy.BasePerPercent = 100
	}
	if cfg.Strategy.ReturnScale <= 0 {
		cfg.Strategy.ReturnScale = 1
	}
	if cfg.Strategy.MinNotional <= 0 {
		cfg.Strategy.MinNotional = 500
	}
	if strings.TrimSpace(cfg.Strategy.HistoryInterval) == "" {
		cfg.Strategy.HistoryInterval = "1h"
	}
	if cfg.Strategy.HistoryLimit < 2 {
		cfg.Strategy.HistoryLimit = 2
	}
	if cfg.Risk.MaxDrawdown <= 0 {
		cfg.Risk.MaxDrawdown = 0.10
	}
	if cfg.Risk.MaxPerAsset <= 0 {
		cfg.Risk.MaxPerAsset = 0.35
	}
	if cfg.Risk.DailyLossLimit <= 0 {
		cfg.Risk.DailyLossLimit = 0.04
	}
	if cfg.Risk.InitialCash <= 0 {
		cfg.Risk.InitialCash = 50000
	}
	if cfg.Risk.CashBuffer <= 0 || cfg.Risk.CashBuffer > 1 {
		cfg.Risk.CashBuffer = 0.995
	}
	if strings.TrimSpace(cfg.Horus.BaseURL) == "" {
		cfg.Horus.BaseURL = "https://api-horus.com"
	}
	if strings.TrimSpace(cfg.Roostoo.BaseURL) == "" {
		cfg.Roostoo.BaseURL = "https://mock-api.roostoo.com"
	}
	if len(cfg.Storage.Drivers) == 0 {
		cfg.Storage.Drivers = []string{"sqlite"}
	}
	if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
		cfg.Storage.SQLitePath = "momo.db"
	}
}

func validate(cfg *Config) error {
	cfg.App.Quote = strings.ToUpper(strings.TrimSpace(cfg.App.Quote))
	cfg.Symbols.List = normalizeSymbols(cfg.Symbols.List)
	if len(cfg.Symbols.List) == 0 {
		return errors.New("symbols.list is empty")
	}

	for i, d := range cfg.Storage.Drivers {
		d = strings.ToLower(strings.TrimSpace(d))
		switch d {
		case "sqlite", "postgres", "redis", "none":
		default:
			return fmt.Errorf("storage.drivers: unknown driver %q", d)
		}
		cfg.Storage.Drivers[i] = d
	}
	for _, d := range cfg.Storage.Drivers {
		if d == "postgres" && strings.TrimSpace(cfg.Storage.PostgresDSN) == "" {
			return errors.New("storage.postgres_dsn empty but postgres driver enabled")
		}
		if d == "redis" && strings.TrimSpace(cfg.Storage.RedisAddr) == "" {
			return errors.New("storage.redis_addr empty but redis driver enabled")
		}
	}

	if cfg.Tape.Enabled && strings.TrimSpace(cfg.Tape.WsURL) == "" {
		return errors.New("tape.ws_url empty but enabled")
	}
	return nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
