package cache

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

// Transport serves GET and HEAD requests from a Cache, falling back to
// the wrapped RoundTripper on a miss and storing successful responses.
type Transport struct {
	Cache *Cache

	// Inner handles misses. nil means http.DefaultTransport.
	Inner http.RoundTripper
}

// NewTransport wraps inner with response caching.
func NewTransport(c *Cache, inner http.RoundTripper) *Transport {
	return &Transport{Cache: c, Inner: inner}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !cacheable(req) {
		return t.inner().RoundTrip(req)
	}

	key := Key(req)
	if resp, err := t.Cache.Get(key); err == nil {
		resp.Request = req
		return resp, nil
	} else if !errors.Is(err, ErrMiss) {
		return nil, err
	}

	resp, err := t.inner().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if err := t.Cache.Set(key, resp, body); err != nil {
			// Serving the response matters more than caching it.
			resp.Body = io.NopCloser(bytes.NewReader(body))
			return resp, nil
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

func (t *Transport) inner() http.RoundTripper {
	if t.Inner != nil {
		return t.Inner
	}
	return http.DefaultTransport
}

func cacheable(req *http.Request) bool {
	return req.Method == http.MethodGet || req.Method == http.MethodHead
}
