package stonks

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// FetchQuote returns the latest traded price of a symbol in its trading
// currency. It reads the chart endpoint's meta object as untyped JSON: the
// payload carries far more than we need and its shape drifts, so two
// jsonpath lookups beat a full struct decode. A nil client selects the
// minute-cached one.
func FetchQuote(client *http.Client, symbol string) (Money, error) {
	if client == nil {
		client = cached()
	}
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", chartHost, url.PathEscape(symbol))

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("error retrieving quote for %q: %w", symbol, err)
	}

	price, err := jfloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return Money{}, fmt.Errorf("error parsing quote for %q: %w", symbol, err)
	}
	currency, err := jstring(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		return Money{}, fmt.Errorf("error parsing quote for %q: %w", symbol, err)
	}

	m := NewMoneyFromFloat(price, currency)
	if m.IsZero() {
		return Money{}, fmt.Errorf("empty quote for %q: price=%v currency=%q", symbol, price, currency)
	}
	return m, nil
}

// jfloat extracts a float64 at path from an untyped JSON document.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q: not a number: %v", path, jval)
	}
	return val, nil
}

// jstring extracts a string at path from an untyped JSON document.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("%q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q: not a string: %v", path, jval)
	}
	return val, nil
}
