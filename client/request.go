package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/urlkit/urlkit"
)

// RequestURL is a urlkit.URL bound to a Session. URL algebra on a
// RequestURL yields RequestURLs sharing the same session, so a base
// API URL can be divided into endpoints without reconfiguring
// transport concerns.
type RequestURL struct {
	urlkit.URL

	session  *Session
	trailing bool
}

// New parses raw and binds it to a fresh session built from opts.
func New(raw string, opts ...SessionOption) (*RequestURL, error) {
	u, err := urlkit.Parse(raw)
	if err != nil {
		return nil, err
	}
	return Bind(u, NewSession(opts...)), nil
}

// NewTrailing is New for endpoints that require a trailing slash.
// Some servers redirect or 404 without one; the slash is appended to
// every rendered request target.
func NewTrailing(raw string, opts ...SessionOption) (*RequestURL, error) {
	r, err := New(raw, opts...)
	if err != nil {
		return nil, err
	}
	r.trailing = true
	return r, nil
}

// Bind attaches u to an existing session.
func Bind(u urlkit.URL, s *Session) *RequestURL {
	if s == nil {
		s = NewSession()
	}
	return &RequestURL{URL: u, session: s}
}

// Session returns the bound session.
func (r *RequestURL) Session() *Session {
	return r.session
}

// Trailing reports whether request targets carry a trailing slash.
func (r *RequestURL) Trailing() bool {
	return r.trailing
}

func (r *RequestURL) rebind(u urlkit.URL) *RequestURL {
	return &RequestURL{URL: u, session: r.session, trailing: r.trailing}
}

// Div appends component, keeping the session.
func (r *RequestURL) Div(component any) (*RequestURL, error) {
	u, err := r.URL.Div(component)
	if err != nil {
		return nil, err
	}
	return r.rebind(u), nil
}

// JoinURL appends components in order, keeping the session.
func (r *RequestURL) JoinURL(components ...any) (*RequestURL, error) {
	u, err := r.URL.JoinURL(components...)
	if err != nil {
		return nil, err
	}
	return r.rebind(u), nil
}

// Parent returns the logical parent, keeping the session.
func (r *RequestURL) Parent() *RequestURL {
	return r.rebind(r.URL.Parent())
}

// Parents returns the ancestors, keeping the session.
func (r *RequestURL) Parents() []*RequestURL {
	parents := r.URL.Parents()
	out := make([]*RequestURL, len(parents))
	for i, p := range parents {
		out[i] = r.rebind(p)
	}
	return out
}

// WithName replaces the final path segment, keeping the session.
func (r *RequestURL) WithName(name string) (*RequestURL, error) {
	u, err := r.URL.WithName(name)
	if err != nil {
		return nil, err
	}
	return r.rebind(u), nil
}

// WithSuffix replaces the final segment's suffix, keeping the session.
func (r *RequestURL) WithSuffix(suffix string) (*RequestURL, error) {
	u, err := r.URL.WithSuffix(suffix)
	if err != nil {
		return nil, err
	}
	return r.rebind(u), nil
}

// endpoint renders the request target without query or fragment.
func (r *RequestURL) endpoint() string {
	target := r.BaseURL().String()
	if r.trailing && !strings.HasSuffix(target, "/") {
		target += "/"
	}
	return target
}

// RequestOption customizes a single request.
type RequestOption func(*resty.Request)

// WithQuery sets the query parameters for this request, replacing any
// carried on the URL.
func WithQuery(params url.Values) RequestOption {
	return func(req *resty.Request) {
		req.QueryParam = url.Values{}
		req.SetQueryParamsFromValues(params)
	}
}

// WithRequestHeader sets a header for this request only.
func WithRequestHeader(key, value string) RequestOption {
	return func(req *resty.Request) {
		req.SetHeader(key, value)
	}
}

// WithBody sets the request body. Maps and structs are serialized as
// JSON; strings and byte slices are sent as-is.
func WithBody(body any) RequestOption {
	return func(req *resty.Request) {
		req.SetBody(body)
	}
}

// WithFormData sets form-encoded body fields.
func WithFormData(fields map[string]string) RequestOption {
	return func(req *resty.Request) {
		req.SetFormData(fields)
	}
}

func (r *RequestURL) execute(ctx context.Context, method string, opts []RequestOption) (*Response, error) {
	req, err := r.session.request(ctx)
	if err != nil {
		return nil, err
	}

	// The URL's own query is the default; options may replace it.
	if method == http.MethodGet && len(r.Query) > 0 {
		req.SetQueryParamsFromValues(r.Query)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, r.endpoint())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, r.endpoint(), err)
	}
	return newResponse(resp)
}

// Get issues a GET request. Without WithQuery the URL's own query
// parameters are sent.
func (r *RequestURL) Get(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodGet, opts)
}

// Post issues a POST request.
func (r *RequestURL) Post(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodPost, opts)
}

// Put issues a PUT request.
func (r *RequestURL) Put(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodPut, opts)
}

// Patch issues a PATCH request.
func (r *RequestURL) Patch(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodPatch, opts)
}

// Delete issues a DELETE request.
func (r *RequestURL) Delete(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodDelete, opts)
}

// Head issues a HEAD request.
func (r *RequestURL) Head(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodHead, opts)
}

// Options issues an OPTIONS request.
func (r *RequestURL) Options(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return r.execute(ctx, http.MethodOptions, opts)
}

// Resolve follows redirects via HEAD and returns the final URL bound
// to the same session. A chain that does not end in 200 is an error,
// not a resolution.
func (r *RequestURL) Resolve(ctx context.Context) (*RequestURL, error) {
	resp, err := r.Head(ctx)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if raised := resp.RaiseForStatus(); raised != nil {
			return nil, raised
		}
		return nil, fmt.Errorf("resolve %s: unexpected status %s", r.endpoint(), resp.Status)
	}
	resolved := r.rebind(resp.URL)
	resolved.trailing = r.trailing
	return resolved, nil
}
