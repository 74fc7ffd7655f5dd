package horus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"momo/internal/domain/model"
)

// Client reads market data from the Horus REST API. It implements
// port.PriceSource.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	retries    int
	retryDelay time.Duration
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		retries:    2,
		retryDelay: 500 * time.Millisecond,
	}
}

type pricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// request performs one GET with retries on transport errors and 5xx.
// The API sometimes wraps the array in {"data": ...}; both shapes decode.
func (c *Client) request(ctx context.Context, path string, params url.Values) ([]pricePoint, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			log.Debug().Str("path", path).Int("attempt", attempt).Msg("horus retry")
		}

		points, retryable, err := c.doOnce(ctx, endpoint)
		if err == nil {
			return points, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint string) (points []pricePoint, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("horus http %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data []pricePoint `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, false, nil
	}
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, false, fmt.Errorf("horus decode: %w", err)
	}
	return points, false, nil
}

func (c *Client) marketPrice(ctx context.Context, asset, interval string) ([]pricePoint, error) {
	params := url.Values{}
	params.Set("asset", asset)
	params.Set("interval", interval)
	params.Set("format", "json")
	return c.request(ctx, "/market/price", params)
}

// LatestPrice returns the most recent positive price of the daily series.
func (c *Client) LatestPrice(ctx context.Context, asset string) (float64, error) {
	points, err := c.marketPrice(ctx, asset, "1d")
	if err != nil {
		return 0, err
	}
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Price > 0 {
			return points[i].Price, nil
		}
	}
	return 0, errors.New("horus: no usable price in series")
}

// History returns quotes ascending by time, trimmed to the last limit
// entries when limit > 0.
func (c *Client) History(ctx context.Context, asset, interval string, limit int) (model.PriceHistory, error) {
	points, err := c.marketPrice(ctx, asset, interval)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	history := make(model.PriceHistory, 0, len(points))
	for _, p := range points {
		history = append(history, model.PriceQuote{
			Asset:      asset,
			Price:      p.Price,
			ObservedAt: time.Unix(p.Timestamp, 0).UTC(),
		})
	}
	return history, nil
}
