package kite

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/vinayrajsn007/ce-trader/broker"
)

func readerFor(params url.Values) io.Reader {
	return strings.NewReader(params.Encode())
}

type orderResponse struct {
	Status string `json:"status"`
	Data   struct {
		OrderID string `json:"order_id"`
	} `json:"data"`
}

// SubmitOrder places a regular intraday market order and returns the
// broker order ID. Fill confirmation is a separate FillPrice poll.
func (c *Client) SubmitOrder(ctx context.Context, exchange, symbol string, side broker.Side, quantity int64) (string, error) {
	params := url.Values{}
	params.Set("exchange", exchange)
	params.Set("tradingsymbol", symbol)
	params.Set("transaction_type", string(side))
	params.Set("order_type", "MARKET")
	params.Set("quantity", strconv.FormatInt(quantity, 10))
	params.Set("product", "MIS")
	params.Set("validity", "DAY")

	var apiResp orderResponse
	if err := c.do(ctx, "POST", "/orders/regular", params, &apiResp); err != nil {
		return "", fmt.Errorf("submit %s %s x%d: %w", side, symbol, quantity, err)
	}
	if apiResp.Data.OrderID == "" {
		return "", fmt.Errorf("submit %s %s: no order id in response", side, symbol)
	}
	return apiResp.Data.OrderID, nil
}

type orderHistoryResponse struct {
	Status string `json:"status"`
	Data   []struct {
		Status        string  `json:"status"`
		StatusMessage string  `json:"status_message"`
		AveragePrice  float64 `json:"average_price"`
	} `json:"data"`
}

// FillPrice reports whether the order has completed and at what average
// price. Rejected or cancelled orders are an error; a still-pending
// order reports filled=false with no error.
func (c *Client) FillPrice(ctx context.Context, orderID string) (float64, bool, error) {
	var apiResp orderHistoryResponse
	if err := c.get(ctx, "/orders/"+orderID, nil, &apiResp); err != nil {
		return 0, false, fmt.Errorf("order %s: %w", orderID, err)
	}
	if len(apiResp.Data) == 0 {
		return 0, false, nil
	}

	last := apiResp.Data[len(apiResp.Data)-1]
	switch last.Status {
	case "COMPLETE":
		return last.AveragePrice, true, nil
	case "REJECTED", "CANCELLED":
		return 0, false, fmt.Errorf("order %s %s: %s", orderID, last.Status, last.StatusMessage)
	default:
		return 0, false, nil
	}
}
