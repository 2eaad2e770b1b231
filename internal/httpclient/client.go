// Package httpclient provides the shared HTTP client used for all traffic
// to the batch platform.
package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/batchtop/errors"
)

const defaultMaxRedirects = 10

// Client wraps http.Client with transport settings tuned for a console that
// polls one platform endpoint: pooled connections, bounded redirects, and a
// hard request timeout so a stalled server never wedges a poll loop.
type Client struct {
	*http.Client
	maxRedirects int
}

// New creates an HTTP client for platform traffic.
func New(timeout time.Duration) *Client {
	client := &Client{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		maxRedirects: defaultMaxRedirects,
	}

	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= client.maxRedirects {
			return errors.Newf("stopped after %d redirects", client.maxRedirects)
		}
		return nil
	}

	return client
}

// ValidateBaseURL parses and validates a platform base URL. Only http and
// https schemes are accepted, and a hostname must be present.
func ValidateBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid server URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, errors.Newf("unsupported scheme %q in server URL (want http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("server URL missing hostname")
	}

	return u, nil
}

// Wrap wraps an existing http.Client in a Client.
// Intended for tests that need to use httptest.NewServer clients.
func Wrap(client *http.Client) *Client {
	return &Client{
		Client:       client,
		maxRedirects: defaultMaxRedirects,
	}
}
