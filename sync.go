package stonks

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/H3cth0r/stonks-data/store"
)

// Default tuning of a Syncer. The one-week backfill window matches what the
// provider serves for one-minute bars.
const (
	DefaultInterval = "1m"
	DefaultWindow   = 7 * 24 * time.Hour
	DefaultThrottle = 2 * time.Second
)

// Syncer incrementally downloads intraday bars for a watchlist into a Store.
//
// For every symbol it resumes right after the last stored timestamp, or
// backfills Window when the symbol is new. Bars already stored are never
// written twice.
type Syncer struct {
	Store  *store.Store
	Client *http.Client // nil means http.DefaultClient

	Interval string        // bar interval, DefaultInterval when empty
	Window   time.Duration // initial backfill, DefaultWindow when zero
	Throttle time.Duration // pause between symbols, DefaultThrottle when negative

	// now is the clock, overridable in tests.
	now func() time.Time
}

// SyncResult reports what happened for one symbol.
type SyncResult struct {
	Group, Symbol     string
	From, To          time.Time
	Fetched, Appended int
	UpToDate          bool // nothing to request, archive is current
	Err               error
}

func (s *Syncer) client() *http.Client {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

func (s *Syncer) interval() string {
	if s.Interval == "" {
		return DefaultInterval
	}
	return s.Interval
}

func (s *Syncer) window() time.Duration {
	if s.Window <= 0 {
		return DefaultWindow
	}
	return s.Window
}

// step returns the duration of one bar interval, used to resume one step
// after the last stored bar. Calendar intervals ("1d", "1wk") don't parse
// as durations; one minute is a safe lower bound for them.
func (s *Syncer) step() time.Duration {
	if d, err := time.ParseDuration(s.interval()); err == nil && d > 0 {
		return d
	}
	return time.Minute
}

func (s *Syncer) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Sync downloads and stores new bars for every symbol of the watchlist,
// in file order. A failing symbol is recorded in its result and does not
// abort the run. Between two symbols Sync pauses for Throttle, to stay
// clear of the provider's rate limiting; cancelling the context ends the
// run early with the results gathered so far.
func (s *Syncer) Sync(ctx context.Context, w Watchlist) []SyncResult {
	var results []SyncResult
	first := true
	for group, symbol := range w.All() {
		if !first {
			if err := s.pause(ctx); err != nil {
				return results
			}
		}
		first = false

		r := s.syncSymbol(ctx, group, symbol)
		results = append(results, r)
		if r.Err != nil {
			log.Printf("sync %s/%s failed: %v", group, symbol, r.Err)
		}
	}
	return results
}

func (s *Syncer) pause(ctx context.Context) error {
	throttle := s.Throttle
	if throttle == 0 {
		throttle = DefaultThrottle
	}
	if throttle < 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(throttle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Syncer) syncSymbol(ctx context.Context, group, symbol string) SyncResult {
	r := SyncResult{Group: group, Symbol: symbol, To: s.clock().UTC()}

	last, hasLast, err := s.Store.LastTimestamp(group, symbol)
	if err != nil {
		r.Err = err
		return r
	}

	if hasLast {
		r.From = last.Add(s.step())
	} else {
		r.From = r.To.Add(-s.window())
	}
	if !r.From.Before(r.To) {
		r.UpToDate = true
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	bars, err := FetchBars(s.client(), symbol, r.From, r.To, s.interval())
	if err != nil {
		r.Err = err
		return r
	}
	r.Fetched = len(bars)

	// The provider rounds the requested window to whole bars: drop
	// anything at or before the last stored timestamp so reruns never
	// duplicate rows.
	if hasLast {
		kept := bars[:0]
		for _, bar := range bars {
			if bar.Time.After(last) {
				kept = append(kept, bar)
			}
		}
		bars = kept
	}
	if len(bars) == 0 {
		r.UpToDate = true
		return r
	}

	if err := s.Store.Append(group, symbol, bars); err != nil {
		r.Err = err
		return r
	}
	r.Appended = len(bars)
	return r
}
