package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"momo/internal/application/port"
)

type Repo struct {
	rdb         *redis.Client
	prefix      string
	ttl         time.Duration
	keyLatest   string // prefix + ":latest"
	cycleStream string
	orderStream string
	signalChan  string
}

type LatestPrice struct {
	Asset string  `json:"asset"`
	Price float64 `json:"price"`
	Ts    int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "momo"
	}
	return &Repo{
		rdb:         rdb,
		prefix:      prefix,
		ttl:         ttl,
		keyLatest:   prefix + ":latest",
		cycleStream: prefix + ":cycles",
		orderStream: prefix + ":orders",
		signalChan:  prefix + ":signals:pub",
	}
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, asset string, price float64, ts int64) error {
	if price <= 0 {
		return nil
	}
	lp := LatestPrice{Asset: asset, Price: price, Ts: ts}
	b, _ := json.Marshal(lp)

	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, asset, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertCycle(ctx context.Context, ts int64, payload string) error {
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.cycleStream,
		Values: map[string]any{
			"ts_ms":   ts,
			"payload": payload,
		},
	}).Result()
	return err
}

// InsertSignal publishes on a channel so a dashboard can follow the live
// signal flow without polling.
func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, ret, targetUSD float64) error {
	msg, _ := json.Marshal(map[string]any{
		"ts_ms":      ts,
		"asset":      asset,
		"ret":        ret,
		"target_usd": targetUSD,
	})
	return r.rdb.Publish(ctx, r.signalChan, string(msg)).Err()
}

func (r *Repo) InsertOrder(ctx context.Context, ts int64, pair, side string, quantity, notional float64, status string) error {
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.orderStream,
		Values: map[string]any{
			"ts_ms":    ts,
			"pair":     pair,
			"side":     side,
			"quantity": quantity,
			"notional": notional,
			"status":   status,
		},
	}).Result()
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
