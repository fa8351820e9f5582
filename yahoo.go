package stonks

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/H3cth0r/stonks-data/store"
	"github.com/shopspring/decimal"
)

// chartHost is the Yahoo Finance endpoint serving the v8 chart API.
// It is a variable so tests can point it at a local server.
var chartHost = "https://query1.finance.yahoo.com"

// chartResponse mirrors the subset of the v8 chart payload we consume.
//
//	{ "chart": { "result": [ {
//	    "meta": { "currency": "USD", "symbol": "AAPL", "regularMarketPrice": 192.53 },
//	    "timestamp": [ 1716902400, ... ],
//	    "indicators": { "quote": [ { "open": [...], "high": [...],
//	                                 "low": [...], "close": [...],
//	                                 "volume": [...] } ] }
//	} ], "error": null } }
//
// Price points can be null when the venue reported no trade for that
// minute, hence the pointer slices.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars downloads the intraday bars of a symbol for the [from, to)
// window at the given interval (e.g. "1m"). Bars are returned in ascending
// time order, timestamps normalized to UTC. Points without a close price
// are dropped. An empty result is not an error: it simply means the venue
// has nothing for that window.
func FetchBars(client *http.Client, symbol string, from, to time.Time, interval string) ([]store.Bar, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&includePrePost=false",
		chartHost, url.PathEscape(symbol), from.Unix(), to.Unix(), url.QueryEscape(interval))

	var payload chartResponse
	if err := jwget(client, addr, &payload); err != nil {
		return nil, fmt.Errorf("cannot fetch bars for %q: %w", symbol, err)
	}
	if e := payload.Chart.Error; e != nil {
		return nil, fmt.Errorf("provider error for %q: %s: %s", symbol, e.Code, e.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]store.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close == nil || i >= len(quote.Close) || quote.Close[i] == nil {
			continue // no trade that minute
		}
		bar := store.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: decimal.NewFromFloat(*quote.Close[i]),
		}
		bar.Open = optDecimal(quote.Open, i, bar.Close)
		bar.High = optDecimal(quote.High, i, bar.Close)
		bar.Low = optDecimal(quote.Low, i, bar.Close)
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	slices.SortFunc(bars, func(a, b store.Bar) int { return a.Time.Compare(b.Time) })
	return bars, nil
}

// optDecimal reads values[i], falling back when the point is null.
func optDecimal(values []*float64, i int, fallback decimal.Decimal) decimal.Decimal {
	if i < len(values) && values[i] != nil {
		return decimal.NewFromFloat(*values[i])
	}
	return fallback
}
