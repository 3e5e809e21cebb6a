package market

import "time"

// IST is the NSE trading calendar timezone.
var IST = time.FixedZone("IST", 5*3600+1800)

// MinuteOfDay is a wall-clock minute within a trading day (hour*60+minute).
type MinuteOfDay int

// At anchors the minute-of-day onto the calendar date of t, in t's location.
func (m MinuteOfDay) At(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), int(m)/60, int(m)%60, 0, 0, t.Location())
}

// Window gates when entries and exits are permitted during a session.
//
// The session splits into: pre-open, a watch-only stretch at the start
// where signals are observed but entries suppressed, the tradable core,
// a stop-new-trades tail where only exits run, and post-close.
type Window struct {
	Open      MinuteOfDay // market open, e.g. 9:15
	Close     MinuteOfDay // market close, e.g. 15:30
	WatchFrom MinuteOfDay // start of watch-only stretch, e.g. 9:25
	TradeFrom MinuteOfDay // first minute entries are allowed, e.g. 9:30

	// StopBeforeClose suppresses new entries this many minutes ahead of
	// Close. Exits keep running until Close.
	StopBeforeClose int
}

// DefaultWindow is the NSE intraday session: open 9:15, close 15:30,
// watch-only 9:25-9:30, no new trades in the last 15 minutes.
func DefaultWindow() Window {
	return Window{
		Open:            9*60 + 15,
		Close:           15*60 + 30,
		WatchFrom:       9*60 + 25,
		TradeFrom:       9*60 + 30,
		StopBeforeClose: 15,
	}
}

func (w Window) minute(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// IsOpen reports whether the market is open at t.
func (w Window) IsOpen(t time.Time) bool {
	m := w.minute(t)
	return m >= w.Open && m <= w.Close
}

// IsWatchOnly reports whether t falls in the observe-but-don't-trade stretch.
func (w Window) IsWatchOnly(t time.Time) bool {
	m := w.minute(t)
	return m >= w.WatchFrom && m < w.TradeFrom
}

// IsPreTrade reports whether t is before the first tradable minute.
func (w Window) IsPreTrade(t time.Time) bool {
	return w.minute(t) < w.TradeFrom
}

// MinutesToClose returns whole minutes until market close, 0 if past close.
func (w Window) MinutesToClose(t time.Time) int {
	m := w.minute(t)
	if m > w.Close {
		return 0
	}
	return int(w.Close - m)
}

// StopNewTrades reports whether the entry cutoff has been reached.
func (w Window) StopNewTrades(t time.Time) bool {
	return w.MinutesToClose(t) < w.StopBeforeClose
}

// CanEnter reports whether a new position may be opened at t. Exits are
// not gated by the window; an open position is managed until close.
func (w Window) CanEnter(t time.Time) bool {
	if !w.IsOpen(t) {
		return false
	}
	if w.minute(t) < w.TradeFrom {
		return false
	}
	return !w.StopNewTrades(t)
}
