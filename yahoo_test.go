package stonks

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chartPayload is a trimmed-down real response of the v8 chart endpoint.
// The second point is null: the venue reported no trade for that minute.
const chartPayload = `{"chart":{"result":[{
	"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":192.53},
	"timestamp":[1716902400,1716902460,1716902520],
	"indicators":{"quote":[{
		"open":[189.91,null,189.95],
		"high":[190.02,null,190.1],
		"low":[189.8,null,189.9],
		"close":[189.95,null,190.05],
		"volume":[12000,null,8000]}]}}],
	"error":null}}`

// serveChart points the provider at a local server for the duration of the
// test and returns it.
func serveChart(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	prev := chartHost
	chartHost = srv.URL
	t.Cleanup(func() {
		chartHost = prev
		srv.Close()
	})
	return srv
}

func TestFetchBars(t *testing.T) {
	serveChart(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartPayload))
	})

	from := time.Unix(1716902000, 0)
	to := time.Unix(1716903000, 0)
	bars, err := FetchBars(new(http.Client), "AAPL", from, to, "1m")
	if err != nil {
		t.Fatalf("FetchBars() unexpected error: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("FetchBars() got %d bars, want 2 (null point dropped)", len(bars))
	}

	first := bars[0]
	if got, want := first.Time, time.Unix(1716902400, 0).UTC(); !got.Equal(want) {
		t.Errorf("first bar time: got %v, want %v", got, want)
	}
	if first.Time.Location() != time.UTC {
		t.Errorf("first bar time not normalized to UTC: %v", first.Time)
	}
	if got := first.Close.String(); got != "189.95" {
		t.Errorf("first bar close: got %s, want 189.95", got)
	}
	if got := first.Open.String(); got != "189.91" {
		t.Errorf("first bar open: got %s, want 189.91", got)
	}
	if first.Volume != 12000 {
		t.Errorf("first bar volume: got %d, want 12000", first.Volume)
	}

	if got, want := bars[1].Time, time.Unix(1716902520, 0).UTC(); !got.Equal(want) {
		t.Errorf("second bar time: got %v, want %v", got, want)
	}
}

func TestFetchBars_ProviderError(t *testing.T) {
	serveChart(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := FetchBars(new(http.Client), "NOPE", time.Unix(0, 0), time.Unix(60, 0), "1m")
	if err == nil {
		t.Fatal("FetchBars() expected an error for a provider error payload")
	}
}

func TestFetchBars_EmptyResult(t *testing.T) {
	serveChart(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	bars, err := FetchBars(new(http.Client), "AAPL", time.Unix(0, 0), time.Unix(60, 0), "1m")
	if err != nil {
		t.Fatalf("FetchBars() unexpected error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("FetchBars() got %d bars, want 0", len(bars))
	}
}

func TestFetchBars_UserAgent(t *testing.T) {
	var gotUA string
	serveChart(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	if _, err := FetchBars(new(http.Client), "AAPL", time.Unix(0, 0), time.Unix(60, 0), "1m"); err != nil {
		t.Fatalf("FetchBars() unexpected error: %v", err)
	}
	if gotUA != userAgent {
		t.Errorf("request User-Agent: got %q, want the browser one", gotUA)
	}
}
