package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/gridwire/pkg/buildinfo"
)

// MaxBodySize caps a fetched document.
const MaxBodySize = 8 << 20

// Client fetches documents with retry and caching.
type Client struct {
	HTTP     *http.Client
	Cache    *Cache // nil disables caching
	Attempts int
	Delay    time.Duration
}

// NewClient returns a client caching responses in cacheDir (empty for
// the default directory) for ttl.
func NewClient(cacheDir string, ttl time.Duration) (*Client, error) {
	c, err := NewCache(cacheDir, ttl)
	if err != nil {
		return nil, err
	}
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Cache:    c.Namespace("get:"),
		Attempts: 3,
		Delay:    time.Second,
	}, nil
}

// Get returns the body at url, from the cache when fresh. The second
// result reports a cache hit.
func (c *Client) Get(ctx context.Context, url string) ([]byte, bool, error) {
	if c.Cache != nil {
		if data, ok, err := c.Cache.Get(url); err == nil && ok {
			return data, true, nil
		}
	}

	var body []byte
	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		var err error
		body, err = c.fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if c.Cache != nil {
		_ = c.Cache.Set(url, body)
	}
	return body, false, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if len(data) > MaxBodySize {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, MaxBodySize)
	}
	return data, nil
}
