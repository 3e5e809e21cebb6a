package kite

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vinayrajsn007/ce-trader/market"
)

// OptionChain downloads the NFO instrument dump and returns the NIFTY
// call contracts expiring on the given date. Premiums are left unset;
// the dump's last_price column is stale by design.
func (c *Client) OptionChain(ctx context.Context, expiry time.Time) ([]market.Instrument, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/instruments/NFO", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Kite-Version", "3")
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instrument dump: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(raw))
	}

	return parseChain(resp.Body, expiry)
}

// parseChain filters the instrument dump CSV down to NIFTY calls for
// one expiry date.
func parseChain(r io.Reader, expiry time.Time) ([]market.Instrument, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("instrument dump header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{
		"instrument_token", "tradingsymbol", "name", "expiry",
		"strike", "lot_size", "instrument_type", "exchange",
	} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("instrument dump missing column %q", name)
		}
	}

	expiryDay := expiry.Format("2006-01-02")

	var chain []market.Instrument
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("instrument dump row: %w", err)
		}
		if rec[col["name"]] != "NIFTY" || rec[col["instrument_type"]] != "CE" {
			continue
		}
		if rec[col["expiry"]] != expiryDay {
			continue
		}

		token, err := strconv.ParseInt(rec[col["instrument_token"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse instrument token %q: %w", rec[col["instrument_token"]], err)
		}
		strike, err := strconv.ParseFloat(rec[col["strike"]], 64)
		if err != nil {
			return nil, fmt.Errorf("parse strike %q: %w", rec[col["strike"]], err)
		}
		lot, err := strconv.ParseInt(rec[col["lot_size"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse lot size %q: %w", rec[col["lot_size"]], err)
		}

		chain = append(chain, market.Instrument{
			Token:      token,
			Symbol:     rec[col["tradingsymbol"]],
			Exchange:   rec[col["exchange"]],
			Strike:     strike,
			Expiry:     expiry,
			LotSize:    lot,
			OptionType: "CE",
		})
	}
	return chain, nil
}
