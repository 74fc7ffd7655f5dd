package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"momo/internal/application/port"
)

// WSFeed streams live ticks from the venue's websocket endpoint. It
// implements port.TickFeed and reconnects with exponential backoff.
type WSFeed struct {
	wsURL string
}

func NewWSFeed(wsURL string) *WSFeed {
	return &WSFeed{wsURL: strings.TrimSpace(wsURL)}
}

func (f *WSFeed) Name() string { return "venue-ws" }

type subscribeMsg struct {
	Op     string   `json:"op"`
	Assets []string `json:"assets"`
}

type tickMsg struct {
	Asset string `json:"asset"`
	Price string `json:"price"`
	Ts    int64  `json:"ts"`
}

func (f *WSFeed) Subscribe(ctx context.Context, assets []string) (<-chan port.Tick, error) {
	if f.wsURL == "" {
		return nil, errors.New("pricefeed: ws url empty")
	}
	clean := make([]string, 0, len(assets))
	for _, a := range assets {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			clean = append(clean, a)
		}
	}
	if len(clean) == 0 {
		return nil, errors.New("pricefeed: no assets to subscribe")
	}

	out := make(chan port.Tick, 1024)
	go f.run(ctx, clean, out)
	return out, nil
}

func (f *WSFeed) run(ctx context.Context, assets []string, out chan<- port.Tick) {
	defer close(out)

	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, f.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("feed", f.Name()).Msg("ws connected")

		if err := conn.WriteJSON(subscribeMsg{Op: "subscribe", Assets: assets}); err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("subscribe failed")
			_ = conn.Close()
			continue
		}

		err = readLoop(ctx, conn, func(b []byte) {
			var msg tickMsg
			if e := json.Unmarshal(b, &msg); e != nil {
				log.Error().Str("feed", f.Name()).Err(e).Msg("json unmarshal failed")
				return
			}
			asset := strings.ToUpper(strings.TrimSpace(msg.Asset))
			pxs := strings.TrimSpace(msg.Price)
			if asset == "" || pxs == "" {
				return
			}
			pxn, _ := strconv.ParseFloat(pxs, 64)
			ts := msg.Ts
			if ts == 0 {
				ts = time.Now().UnixMilli()
			}
			out <- port.Tick{
				Asset:    asset,
				PriceStr: pxs,
				PriceNum: pxn,
				Ts:       ts,
			}
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("feed", f.Name()).Err(err).Msg("ws disconnected, reconnecting")
		time.Sleep(backoff)
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err == nil {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			}
			if err != nil {
				errCh <- err
				return
			}
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
