// mockvenue is a local stand-in for both the market data API and the
// paper-trading venue, so the bot can run end to end without network
// access or real credentials.
package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"momo/internal/infrastructure/logger"
)

var basePrices = map[string]float64{
	"BTC": 68000,
	"ETH": 3500,
	"SOL": 180,
}

const defaultBasePrice = 100

type pricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

type venue struct {
	secret string
	apiKey string

	mu      sync.Mutex
	prices  map[string]float64
	history map[string][]pricePoint
	wallet  map[string]float64
	seq     int64
}

func newVenue(apiKey, secret string, initialCash float64) *venue {
	v := &venue{
		secret:  secret,
		apiKey:  apiKey,
		prices:  map[string]float64{},
		history: map[string][]pricePoint{},
		wallet:  map[string]float64{"USD": initialCash},
	}
	now := time.Now().Unix()
	for asset, base := range basePrices {
		v.prices[asset] = base
		// seed enough history for a momentum window
		for i := int64(120); i > 0; i-- {
			v.history[asset] = append(v.history[asset], pricePoint{
				Timestamp: now - i*60,
				Price:     base * (1 + (rand.Float64()-0.5)*0.01),
			})
		}
	}
	return v
}

func (v *venue) priceOf(asset string) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, ok := v.prices[asset]; ok {
		return p
	}
	// unknown assets get a deterministic base so requests never 404
	v.prices[asset] = defaultBasePrice
	return defaultBasePrice
}

// walk nudges every price by up to ±0.5% once per second.
func (v *venue) walk() {
	for range time.Tick(time.Second) {
		v.mu.Lock()
		now := time.Now().Unix()
		for asset, p := range v.prices {
			next := p * (1 + (rand.Float64()-0.5)*0.01)
			v.prices[asset] = next
			h := append(v.history[asset], pricePoint{Timestamp: now, Price: next})
			if len(h) > 600 {
				h = h[len(h)-600:]
			}
			v.history[asset] = h
		}
		v.mu.Unlock()
	}
}

// verifySignature recomputes the HMAC over sorted raw k=v pairs and
// compares it to the MSG-SIGNATURE header.
func (v *venue) verifySignature(r *http.Request) bool {
	if r.Header.Get("RST-API-KEY") != v.apiKey {
		return false
	}

	var params url.Values
	if r.Method == http.MethodGet {
		params = r.URL.Query()
	} else {
		if err := r.ParseForm(); err != nil {
			return false
		}
		params = r.PostForm
	}
	if params.Get("timestamp") == "" {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}

	h := hmac.New(sha256.New, []byte(v.secret))
	h.Write([]byte(strings.Join(pairs, "&")))
	want := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(want), []byte(r.Header.Get("MSG-SIGNATURE")))
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (v *venue) handleMarketPrice(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(r.URL.Query().Get("asset"))
	if asset == "" {
		http.Error(w, "asset required", http.StatusUnprocessableEntity)
		return
	}
	v.priceOf(asset) // ensures series exists

	v.mu.Lock()
	series := v.history[asset]
	if len(series) == 0 {
		series = []pricePoint{{Timestamp: time.Now().Unix(), Price: v.prices[asset]}}
	}
	out := make([]pricePoint, len(series))
	copy(out, series)
	v.mu.Unlock()

	writeJSON(w, out)
}

func (v *venue) handleServerTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"Success":    true,
		"ServerTime": time.Now().UnixMilli(),
	})
}

func (v *venue) handleExchangeInfo(w http.ResponseWriter, r *http.Request) {
	pairs := map[string]any{}
	v.mu.Lock()
	for asset := range v.prices {
		pairs[asset+"/USD"] = map[string]int{
			"AmountPrecision": 4,
			"PricePrecision":  2,
		}
	}
	v.mu.Unlock()
	writeJSON(w, map[string]any{"Success": true, "TradePairs": pairs})
}

func (v *venue) handleBalance(w http.ResponseWriter, r *http.Request) {
	if !v.verifySignature(r) {
		writeJSON(w, map[string]any{"Success": false, "ErrMsg": "signature mismatch"})
		return
	}

	wallet := map[string]any{}
	v.mu.Lock()
	for asset, qty := range v.wallet {
		wallet[asset] = map[string]float64{"Free": qty, "Lock": 0}
	}
	v.mu.Unlock()
	writeJSON(w, map[string]any{"Success": true, "ErrMsg": "", "SpotWallet": wallet})
}

func (v *venue) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	if !v.verifySignature(r) {
		writeJSON(w, map[string]any{"Success": false, "ErrMsg": "signature mismatch"})
		return
	}

	pair := r.PostForm.Get("pair")
	side := strings.ToUpper(r.PostForm.Get("side"))
	quantity, err := strconv.ParseFloat(r.PostForm.Get("quantity"), 64)
	if err != nil || quantity <= 0 {
		writeJSON(w, map[string]any{"Success": false, "ErrMsg": "bad quantity"})
		return
	}
	asset, _, ok := strings.Cut(pair, "/")
	if !ok {
		writeJSON(w, map[string]any{"Success": false, "ErrMsg": "bad pair"})
		return
	}

	fill := v.priceOf(asset)
	if ps := r.PostForm.Get("price"); ps != "" {
		if p, err := strconv.ParseFloat(ps, 64); err == nil && p > 0 {
			fill = p
		}
	}
	notional := quantity * fill

	v.mu.Lock()
	defer v.mu.Unlock()
	switch side {
	case "BUY":
		if v.wallet["USD"] < notional {
			writeJSON(w, map[string]any{"Success": false, "ErrMsg": "insufficient USD"})
			return
		}
		v.wallet["USD"] -= notional
		v.wallet[asset] += quantity
	case "SELL":
		if v.wallet[asset] < quantity {
			writeJSON(w, map[string]any{"Success": false, "ErrMsg": "insufficient " + asset})
			return
		}
		v.wallet[asset] -= quantity
		v.wallet["USD"] += notional
	default:
		writeJSON(w, map[string]any{"Success": false, "ErrMsg": "bad side"})
		return
	}

	v.seq++
	log.Info().Str("pair", pair).Str("side", side).Float64("quantity", quantity).Float64("fill", fill).Msg("order filled")
	writeJSON(w, map[string]any{
		"Success": true,
		"ErrMsg":  "",
		"OrderDetail": map[string]any{
			"OrderID": v.seq,
			"Pair":    pair,
			"Status":  "FILLED",
		},
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type subscribeMsg struct {
	Op     string   `json:"op"`
	Assets []string `json:"assets"`
}

func (v *venue) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	var sub subscribeMsg
	if err := conn.ReadJSON(&sub); err != nil || sub.Op != "subscribe" || len(sub.Assets) == 0 {
		log.Warn().Err(err).Msg("ws client sent no subscription")
		return
	}
	assets := make([]string, 0, len(sub.Assets))
	for _, a := range sub.Assets {
		assets = append(assets, strings.ToUpper(strings.TrimSpace(a)))
	}
	log.Info().Strs("assets", assets).Msg("ws client subscribed")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		for _, asset := range assets {
			msg := map[string]any{
				"asset": asset,
				"price": strconv.FormatFloat(v.priceOf(asset), 'f', 2, 64),
				"ts":    time.Now().UnixMilli(),
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func main() {
	logger.Setup()

	addr := flag.String("addr", ":9101", "listen address")
	apiKey := flag.String("api-key", "mock-key", "accepted API key")
	secret := flag.String("api-secret", "mock-secret", "HMAC secret")
	cash := flag.Float64("cash", 50000, "initial USD balance")
	flag.Parse()

	v := newVenue(*apiKey, *secret, *cash)
	go v.walk()

	mux := http.NewServeMux()
	mux.HandleFunc("/market/price", v.handleMarketPrice)
	mux.HandleFunc("/v3/serverTime", v.handleServerTime)
	mux.HandleFunc("/v3/exchangeInfo", v.handleExchangeInfo)
	mux.HandleFunc("/v3/balance", v.handleBalance)
	mux.HandleFunc("/v3/place_order", v.handlePlaceOrder)
	mux.HandleFunc("/ws", v.handleWS)

	log.Info().Str("addr", *addr).Msg("mock venue listening")
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal().Err(err).Msg("mock venue exited")
	}
}
