package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"momo/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS prices (
  asset TEXT PRIMARY KEY,
  price DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS cycles (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(ts_ms);

CREATE TABLE IF NOT EXISTS signals (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  asset TEXT NOT NULL,
  ret DOUBLE PRECISION NOT NULL,
  target_usd DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);
CREATE INDEX IF NOT EXISTS idx_signals_asset ON signals(asset);

CREATE TABLE IF NOT EXISTS orders (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  pair TEXT NOT NULL,
  side TEXT NOT NULL,
  quantity DOUBLE PRECISION NOT NULL,
  notional DOUBLE PRECISION NOT NULL,
  status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(ts_ms);
CREATE INDEX IF NOT EXISTS idx_orders_pair ON orders(pair);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, asset string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prices(asset, price, ts_ms) VALUES($1, $2, $3)
		ON CONFLICT(asset) DO UPDATE SET price=excluded.price, ts_ms=excluded.ts_ms
	`, asset, price, ts)
	return err
}

func (r *Repo) InsertCycle(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO cycles(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, asset string, ret, targetUSD float64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO signals(ts_ms, asset, ret, target_usd) VALUES($1, $2, $3, $4)`, ts, asset, ret, targetUSD)
	return err
}

func (r *Repo) InsertOrder(ctx context.Context, ts int64, pair, side string, quantity, notional float64, status string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO orders(ts_ms, pair, side, quantity, notional, status) VALUES($1, $2, $3, $4, $5, $6)`, ts, pair, side, quantity, notional, status)
	return err
}

var _ port.Repository = (*Repo)(nil)
