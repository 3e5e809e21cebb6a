// Package kite is a minimal Zerodha Kite Connect REST client covering
// what the trading loop needs: historical candles, spot quotes, margin
// balance, the NFO instrument dump and regular market orders.
package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vinayrajsn007/ce-trader/market"
)

// BaseURL is the Kite Connect API endpoint.
const BaseURL = "https://api.kite.trade"

// candleTimeLayout is the timestamp format in historical candle data.
const candleTimeLayout = "2006-01-02T15:04:05-0700"

// Client is a Kite Connect API client. Authentication uses the daily
// access token obtained through the Kite login flow.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a Kite Connect client.
func NewClient(apiKey, accessToken string) *Client {
	return &Client{
		baseURL:     BaseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// get performs an authenticated GET and decodes the response envelope's
// data field into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, "GET", path, params, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	apiURL := c.baseURL + path
	var body io.Reader
	if method == "GET" {
		if len(params) > 0 {
			apiURL += "?" + params.Encode()
		}
	} else if params != nil {
		body = readerFor(params)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Kite-Version", "3")
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type historicalResponse struct {
	Status string `json:"status"`
	Data   struct {
		Candles [][]any `json:"candles"`
	} `json:"data"`
}

// GetCandles fetches historical candles for the instrument token at the
// given interval over [from, to].
func (c *Client) GetCandles(ctx context.Context, token int64, interval market.Interval, from, to time.Time) ([]market.Candle, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02 15:04:05"))
	params.Set("to", to.Format("2006-01-02 15:04:05"))

	path := fmt.Sprintf("/instruments/historical/%d/%s", token, interval)

	var apiResp historicalResponse
	if err := c.get(ctx, path, params, &apiResp); err != nil {
		return nil, fmt.Errorf("historical %d %s: %w", token, interval, err)
	}

	candles := make([]market.Candle, 0, len(apiResp.Data.Candles))
	for _, raw := range apiResp.Data.Candles {
		candle, err := parseCandle(raw)
		if err != nil {
			return nil, fmt.Errorf("historical %d %s: %w", token, interval, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// parseCandle decodes one [time, o, h, l, c, volume] array entry.
func parseCandle(raw []any) (market.Candle, error) {
	if len(raw) < 6 {
		return market.Candle{}, fmt.Errorf("candle entry has %d fields, want 6", len(raw))
	}
	ts, ok := raw[0].(string)
	if !ok {
		return market.Candle{}, fmt.Errorf("candle timestamp %v is not a string", raw[0])
	}
	t, err := time.Parse(candleTimeLayout, ts)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse candle time %s: %w", ts, err)
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		v, ok := raw[i].(float64)
		if !ok {
			return market.Candle{}, fmt.Errorf("candle field %d is %T, want number", i, raw[i])
		}
		vals[i-1] = v
	}

	return market.Candle{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

type ltpResponse struct {
	Status string `json:"status"`
	Data   map[string]struct {
		InstrumentToken int64   `json:"instrument_token"`
		LastPrice       float64 `json:"last_price"`
	} `json:"data"`
}

// LTP returns the last traded price of exchange:symbol.
func (c *Client) LTP(ctx context.Context, exchange, symbol string) (float64, error) {
	key := exchange + ":" + symbol
	params := url.Values{}
	params.Set("i", key)

	var apiResp ltpResponse
	if err := c.get(ctx, "/quote/ltp", params, &apiResp); err != nil {
		return 0, fmt.Errorf("ltp %s: %w", key, err)
	}

	entry, ok := apiResp.Data[key]
	if !ok {
		return 0, fmt.Errorf("ltp %s: no quote in response", key)
	}
	return entry.LastPrice, nil
}

type marginsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Net       float64 `json:"net"`
		Available struct {
			Cash        float64 `json:"cash"`
			LiveBalance float64 `json:"live_balance"`
		} `json:"available"`
	} `json:"data"`
}

// AvailableCapital returns the live equity balance available to trade.
func (c *Client) AvailableCapital(ctx context.Context) (float64, error) {
	var apiResp marginsResponse
	if err := c.get(ctx, "/user/margins/equity", nil, &apiResp); err != nil {
		return 0, fmt.Errorf("margins: %w", err)
	}
	return apiResp.Data.Available.LiveBalance, nil
}
