package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"momo/internal/application/port"
	"momo/internal/application/usecase/rebalance"
	"momo/internal/application/usecase/tape"
	"momo/internal/domain/service"
	"momo/internal/infrastructure/config"
	"momo/internal/infrastructure/exchange/horus"
	"momo/internal/infrastructure/exchange/roostoo"
	"momo/internal/infrastructure/exchange/sim"
	"momo/internal/infrastructure/logger"
	"momo/internal/infrastructure/pricefeed"
	"momo/internal/infrastructure/storage/composite"
	"momo/internal/infrastructure/storage/postgres"
	redisrepo "momo/internal/infrastructure/storage/redis"
	"momo/internal/infrastructure/storage/sqlite"
	"momo/internal/interfaces/console"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()
	if *debug {
		logger.SetDebug()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		log.Fatal().Err(err).Msg("load credentials failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prices := horus.NewClient(cfg.Horus.BaseURL, creds.HorusKey)

	repo, err := buildRepo(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open journal failed")
	}
	defer repo.Close()

	sink := buildSink(ctx, cfg, creds, prices)

	if cfg.Tape.Enabled {
		feed := pricefeed.NewWSFeed(cfg.Tape.WsURL)
		tapeSvc := tape.NewService(tape.ServiceDeps{
			Feed:   feed,
			Assets: cfg.Symbols.List,
			Repo:   repo,
			Sink:   console.NewSink(),
		})
		go func() {
			if err := tapeSvc.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("tape service exited")
			}
		}()
	}

	svc := rebalance.NewService(rebalance.ServiceDeps{
		Prices:   prices,
		Exchange: sink,
		Repo:     repo,
		Scorer:   service.NewMomentumScorer(cfg.Strategy.BasePerPercent, cfg.Strategy.ReturnScale),
		Governor: service.NewRiskGovernor(service.RiskLimits{
			MaxDrawdown:    cfg.Risk.MaxDrawdown,
			MaxPerAsset:    cfg.Risk.MaxPerAsset,
			DailyLossLimit: cfg.Risk.DailyLossLimit,
			InitialCash:    cfg.Risk.InitialCash,
		}),
		Planner:         service.NewOrderPlanner(cfg.Risk.MaxPerAsset, cfg.Risk.CashBuffer, cfg.Strategy.MinNotional, cfg.App.Quote),
		Basket:          cfg.Symbols.List,
		Quote:           cfg.App.Quote,
		Interval:        time.Duration(cfg.App.IntervalSec) * time.Second,
		HistoryInterval: cfg.Strategy.HistoryInterval,
		HistoryLimit:    cfg.Strategy.HistoryLimit,
		Fallbacks:       cfg.Fallback.Prices,
	})

	log.Info().
		Str("config", *configPath).
		Int("symbols", len(cfg.Symbols.List)).
		Int("interval_sec", cfg.App.IntervalSec).
		Bool("dry_run", cfg.App.DryRun).
		Msg("momo started")

	if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("rebalance service exited")
	}
}

func buildRepo(cfg *config.Config) (port.Repository, error) {
	var repos []port.Repository
	for _, driver := range cfg.Storage.Drivers {
		switch driver {
		case "sqlite":
			r, err := sqlite.New(cfg.Storage.SQLitePath)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		case "postgres":
			r, err := postgres.New(cfg.Storage.PostgresDSN)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		case "redis":
			rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Storage.RedisAddr})
			repos = append(repos, redisrepo.New(rdb, "momo", 24*time.Hour))
		case "none":
			repos = append(repos, rebalance.NewNoopRepo())
		}
	}
	if len(repos) == 1 {
		return repos[0], nil
	}
	return composite.New(repos...), nil
}

func buildSink(ctx context.Context, cfg *config.Config, creds *config.Credentials, prices port.PriceSource) port.ExecutionSink {
	if cfg.App.DryRun {
		log.Info().Msg("dry run: orders settle against the in-memory venue")
		return sim.NewSink(cfg.Symbols.List, cfg.App.Quote, cfg.Risk.InitialCash, prices.LatestPrice)
	}

	if err := creds.ValidateLive(); err != nil {
		log.Fatal().Err(err).Msg("live trading requires venue credentials")
	}

	client := roostoo.NewClient(cfg.Roostoo.BaseURL, creds.RoostooKey, creds.RoostooSecret)
	serverTime, err := client.ServerTime(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("venue unreachable")
	}
	skew := time.Now().UnixMilli() - serverTime
	log.Info().Int64("skew_ms", skew).Msg("venue clock checked")
	if skew > 5000 || skew < -5000 {
		log.Warn().Int64("skew_ms", skew).Msg("large clock skew, signed requests may be rejected")
	}
	return client
}
