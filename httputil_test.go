package stonks

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// trackingBody records whether the response body was closed.
type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error { b.closed = true; return nil }

// staticTransport serves one canned response.
type staticTransport struct {
	resp *http.Response
}

func (t *staticTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.resp.Request = req
	return t.resp, nil
}

func TestJwget_ClosesBodyOnHTTPError(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("slow down")}
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Status:     "429 Too Many Requests",
		Header:     http.Header{},
		Body:       body,
	}
	client := &http.Client{Transport: &staticTransport{resp}}

	var data any
	if err := jwget(client, "http://localhost/v8/finance/chart/AAPL", &data); err == nil {
		t.Fatal("jwget() expected an error on a 429 response")
	}
	if !body.closed {
		t.Error("jwget() left the response body open")
	}
}

func TestJwget_ClosesBodyOnSuccess(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"ok":true}`)}
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{},
		Body:       body,
	}
	client := &http.Client{Transport: &staticTransport{resp}}

	var data any
	if err := jwget(client, "http://localhost/v8/finance/chart/AAPL", &data); err != nil {
		t.Fatalf("jwget() unexpected error: %v", err)
	}
	if !body.closed {
		t.Error("jwget() left the response body open")
	}
}
