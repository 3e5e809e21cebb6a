package market

import (
	"fmt"
	"strings"
	"time"
)

// expiryLayouts are tried in order. Layouts without a year default to
// the reference year passed to ParseExpiry.
var expiryLayouts = []string{
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// ParseExpiry parses an option expiry date from the loose formats users
// type ("Jan 23", "23 Jan 2026", "2026-01-23", "23/01/2026"). Layouts
// without a year assume the given year. The result is midnight IST.
func ParseExpiry(s string, year int) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty expiry date")
	}

	for _, layout := range expiryLayouts {
		t, err := time.ParseInLocation(layout, s, IST)
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "2006") {
			t = t.AddDate(year-t.Year(), 0, 0)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized expiry date %q (try \"Jan 23\" or \"2026-01-23\")", s)
}
