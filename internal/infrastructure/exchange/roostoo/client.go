package roostoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"momo/internal/domain/model"
)

// Client talks to the Roostoo paper-trading venue. It implements
// port.ExecutionSink.
type Client struct {
	credentials *Credentials
	httpClient  *http.Client
	baseURL     string
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		credentials: NewCredentials(apiKey, apiSecret),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type serverTimeResponse struct {
	Success    bool   `json:"Success"`
	ErrMsg     string `json:"ErrMsg"`
	ServerTime int64  `json:"ServerTime"`
}

type walletEntry struct {
	Free float64 `json:"Free"`
	Lock float64 `json:"Lock"`
}

type balanceResponse struct {
	Success    bool                   `json:"Success"`
	ErrMsg     string                 `json:"ErrMsg"`
	SpotWallet map[string]walletEntry `json:"SpotWallet"`
}

type tradePairInfo struct {
	AmountPrecision int `json:"AmountPrecision"`
	PricePrecision  int `json:"PricePrecision"`
}

type exchangeInfoResponse struct {
	Success    bool                     `json:"Success"`
	ErrMsg     string                   `json:"ErrMsg"`
	TradePairs map[string]tradePairInfo `json:"TradePairs"`
}

type orderDetail struct {
	OrderID int64  `json:"OrderID"`
	Pair    string `json:"Pair"`
	Status  string `json:"Status"`
}

type placeOrderResponse struct {
	Success     bool        `json:"Success"`
	ErrMsg      string      `json:"ErrMsg"`
	OrderDetail orderDetail `json:"OrderDetail"`
}

// ServerTime is used as a connectivity and clock-skew probe at startup.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/v3/serverTime", nil)
	if err != nil {
		return 0, err
	}
	var resp serverTimeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("serverTime decode: %w", err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("serverTime rejected: %s", resp.ErrMsg)
	}
	return resp.ServerTime, nil
}

// Balances flattens the spot wallet to total (free + locked) per asset.
func (c *Client) Balances(ctx context.Context) (map[string]float64, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/v3/balance", nil)
	if err != nil {
		return nil, err
	}
	var resp balanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("balance decode: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("balance rejected: %s", resp.ErrMsg)
	}

	out := make(map[string]float64, len(resp.SpotWallet))
	for asset, entry := range resp.SpotWallet {
		out[asset] = entry.Free + entry.Lock
	}
	return out, nil
}

// TradeRules derives quantization rules from the exchange info precisions.
func (c *Client) TradeRules(ctx context.Context) (map[string]model.TradeRule, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}
	var resp exchangeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("exchangeInfo decode: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("exchangeInfo rejected: %s", resp.ErrMsg)
	}

	rules := make(map[string]model.TradeRule, len(resp.TradePairs))
	for pair, info := range resp.TradePairs {
		rules[pair] = model.RuleFromPrecision(info.AmountPrecision, info.PricePrecision)
	}
	return rules, nil
}

// PlaceOrder submits a MARKET order, or a LIMIT order when price is non-nil.
func (c *Client) PlaceOrder(ctx context.Context, pair string, side model.Side, quantity float64, price *float64) (model.OrderResult, error) {
	params := map[string]string{
		"pair":     pair,
		"side":     string(side),
		"quantity": strconv.FormatFloat(quantity, 'f', -1, 64),
		"type":     "MARKET",
	}
	if price != nil {
		params["type"] = "LIMIT"
		params["price"] = strconv.FormatFloat(*price, 'f', -1, 64)
	}

	body, err := c.signedRequest(ctx, http.MethodPost, "/v3/place_order", params)
	if err != nil {
		return model.OrderResult{}, err
	}
	var resp placeOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.OrderResult{}, fmt.Errorf("place_order decode: %w", err)
	}
	if !resp.Success {
		return model.OrderResult{}, fmt.Errorf("place_order rejected: %s", resp.ErrMsg)
	}

	return model.OrderResult{
		OrderID: strconv.FormatInt(resp.OrderDetail.OrderID, 10),
		Status:  resp.OrderDetail.Status,
	}, nil
}
