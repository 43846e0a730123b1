package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/urlkit/urlkit"
)

// Response holds the outcome of a request after redirects.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	URL        urlkit.URL
	Elapsed    time.Duration
}

// ClientError reports a 4xx response.
type ClientError struct {
	Response *Response
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: %s for url %s", e.Response.Status, e.Response.URL)
}

// IsNotFound reports whether the response was a 404.
func (e *ClientError) IsNotFound() bool {
	return e.Response.StatusCode == http.StatusNotFound
}

// ServerError reports a 5xx response.
type ServerError struct {
	Response *Response
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s for url %s", e.Response.Status, e.Response.URL)
}

func newResponse(resp *resty.Response) (*Response, error) {
	finalURL := resp.Request.URL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	u, err := urlkit.Parse(finalURL)
	if err != nil {
		return nil, fmt.Errorf("parse response url: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		URL:        u,
		Elapsed:    resp.Time(),
	}, nil
}

// String returns the body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return sonic.Unmarshal(r.Body, v)
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// FromCache reports whether the response was served from the on-disk
// cache.
func (r *Response) FromCache() bool {
	return r.Header.Get("X-Cache") == "HIT"
}

// RaiseForStatus returns a typed error for 4xx and 5xx responses and
// nil otherwise.
func (r *Response) RaiseForStatus() error {
	switch {
	case r.StatusCode >= 500:
		return &ServerError{Response: r}
	case r.StatusCode >= 400:
		return &ClientError{Response: r}
	default:
		return nil
	}
}
