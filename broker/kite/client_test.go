package kite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayrajsn007/ce-trader/broker"
	"github.com/vinayrajsn007/ce-trader/market"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		baseURL:     server.URL,
		apiKey:      "test-key",
		accessToken: "test-token",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGetCandles_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-key:test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.Header.Get("X-Kite-Version"))
		assert.Equal(t, "/instruments/historical/12345/2minute", r.URL.Path)
		assert.Equal(t, "2026-03-05 09:15:00", r.URL.Query().Get("from"))

		fmt.Fprint(w, `{"status":"success","data":{"candles":[
			["2026-03-05T09:15:00+0530",101.5,102.0,101.0,101.8,120],
			["2026-03-05T09:17:00+0530",101.8,102.5,101.6,102.2,95]
		]}}`)
	}))
	defer server.Close()

	client := testClient(server)

	from := time.Date(2026, 3, 5, 9, 15, 0, 0, market.IST)
	to := time.Date(2026, 3, 5, 15, 30, 0, 0, market.IST)
	candles, err := client.GetCandles(context.Background(), 12345, market.Minute2, from, to)

	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 101.5, candles[0].Open)
	assert.Equal(t, 102.0, candles[0].High)
	assert.Equal(t, 101.0, candles[0].Low)
	assert.Equal(t, 101.8, candles[0].Close)
	assert.Equal(t, 120.0, candles[0].Volume)
	assert.True(t, candles[0].Time.Equal(from))

	assert.Equal(t, 102.2, candles[1].Close)
}

func TestGetCandles_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"status":"error","message":"Invalid token"}`)
	}))
	defer server.Close()

	_, err := testClient(server).GetCandles(context.Background(), 12345, market.Minute2, time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGetCandles_MalformedEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{"candles":[["2026-03-05T09:15:00+0530",101.5]]}}`)
	}))
	defer server.Close()

	_, err := testClient(server).GetCandles(context.Background(), 12345, market.Minute2, time.Now(), time.Now())
	require.Error(t, err)
}

func TestLTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/ltp", r.URL.Path)
		assert.Equal(t, "NSE:NIFTY 50", r.URL.Query().Get("i"))

		fmt.Fprint(w, `{"status":"success","data":{"NSE:NIFTY 50":{"instrument_token":256265,"last_price":24510.35}}}`)
	}))
	defer server.Close()

	price, err := testClient(server).LTP(context.Background(), "NSE", "NIFTY 50")
	require.NoError(t, err)
	assert.Equal(t, 24510.35, price)
}

func TestLTP_MissingQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{}}`)
	}))
	defer server.Close()

	_, err := testClient(server).LTP(context.Background(), "NSE", "NIFTY 50")
	require.Error(t, err)
}

func TestAvailableCapital(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/margins/equity", r.URL.Path)

		fmt.Fprint(w, `{"status":"success","data":{"net":99500.5,"available":{"cash":100000,"live_balance":99500.5}}}`)
	}))
	defer server.Close()

	capital, err := testClient(server).AvailableCapital(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99500.5, capital)
}

func TestSubmitOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/orders/regular", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "NFO", r.PostForm.Get("exchange"))
		assert.Equal(t, "NIFTY26MAR24500CE", r.PostForm.Get("tradingsymbol"))
		assert.Equal(t, "BUY", r.PostForm.Get("transaction_type"))
		assert.Equal(t, "MARKET", r.PostForm.Get("order_type"))
		assert.Equal(t, "65", r.PostForm.Get("quantity"))
		assert.Equal(t, "MIS", r.PostForm.Get("product"))

		fmt.Fprint(w, `{"status":"success","data":{"order_id":"240305000123456"}}`)
	}))
	defer server.Close()

	orderID, err := testClient(server).SubmitOrder(context.Background(), "NFO", "NIFTY26MAR24500CE", broker.Buy, 65)
	require.NoError(t, err)
	assert.Equal(t, "240305000123456", orderID)
}

func TestFillPrice(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantPrice  float64
		wantFilled bool
		wantErr    bool
	}{
		{
			name:       "complete",
			body:       `{"status":"success","data":[{"status":"OPEN"},{"status":"COMPLETE","average_price":101.85}]}`,
			wantPrice:  101.85,
			wantFilled: true,
		},
		{
			name: "still pending",
			body: `{"status":"success","data":[{"status":"OPEN"}]}`,
		},
		{
			name:    "rejected",
			body:    `{"status":"success","data":[{"status":"REJECTED","status_message":"Insufficient funds"}]}`,
			wantErr: true,
		},
		{
			name: "no history yet",
			body: `{"status":"success","data":[]}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/orders/abc123", r.URL.Path)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			price, filled, err := testClient(server).FillPrice(context.Background(), "abc123")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilled, filled)
			assert.Equal(t, tt.wantPrice, price)
		})
	}
}
