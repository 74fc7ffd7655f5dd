package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSubscribeReceivesTicks(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var sub subscribeMsg
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if sub.Op != "subscribe" || len(sub.Assets) != 2 || sub.Assets[0] != "BTC" {
			t.Errorf("subscribe msg: %+v", sub)
		}

		_ = conn.WriteJSON(tickMsg{Asset: "btc", Price: "68001.5", Ts: 1700000000000})
		_ = conn.WriteJSON(tickMsg{Asset: "ETH", Price: "3500"})

		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewWSFeed("ws" + strings.TrimPrefix(srv.URL, "http"))
	ticks, err := feed.Subscribe(ctx, []string{" btc ", "ETH"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	first := <-ticks
	if first.Asset != "BTC" || first.PriceNum != 68001.5 || first.Ts != 1700000000000 {
		t.Errorf("first tick: %+v", first)
	}
	if first.PriceStr != "68001.5" {
		t.Errorf("price string: got %q", first.PriceStr)
	}

	second := <-ticks
	if second.Asset != "ETH" || second.PriceNum != 3500 {
		t.Errorf("second tick: %+v", second)
	}
	if second.Ts == 0 {
		t.Error("missing ts must be stamped locally")
	}
}

func TestSubscribeRejectsEmptyInput(t *testing.T) {
	feed := NewWSFeed("")
	if _, err := feed.Subscribe(context.Background(), []string{"BTC"}); err == nil {
		t.Error("expected error for empty url")
	}

	feed = NewWSFeed("ws://localhost:1/ws")
	if _, err := feed.Subscribe(context.Background(), []string{" ", ""}); err == nil {
		t.Error("expected error for empty asset list")
	}
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	feed := NewWSFeed("ws" + strings.TrimPrefix(srv.URL, "http"))
	ticks, err := feed.Subscribe(ctx, []string{"BTC"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	cancel()
	select {
	case _, open := <-ticks:
		if open {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}
}
