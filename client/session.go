package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/urlkit/urlkit/cache"
	"github.com/urlkit/urlkit/internal/config"
	"github.com/urlkit/urlkit/internal/logging"
	"github.com/urlkit/urlkit/ratelimit"
)

// Session wraps resty with retries, pacing, and shared configuration.
// All mutators are safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	resty   *resty.Client
	limiter *rate.Limiter
	gate    *ratelimit.Gate
	logger  *logging.Logger
}

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// NewSession creates a session with retrying transport and defaults
// from the environment.
func NewSession(opts ...SessionOption) *Session {
	cfg := config.LoadOrDefault()

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.HTTP.RetryMax
	retryClient.RetryWaitMin = cfg.HTTP.RetryWaitMin
	retryClient.RetryWaitMax = cfg.HTTP.RetryWaitMax
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.HTTP.Timeout).
		SetHeader("User-Agent", cfg.HTTP.UserAgent).
		SetTransport(retryClient.HTTPClient.Transport).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.HTTP.MaxRedirects))

	s := &Session{
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logging.Nop(),
	}
	if rps := cfg.RateLimit.RequestsPerSecond; rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), cfg.RateLimit.Burst)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.SetTimeout(d) }
}

// WithRetry sets retry count and backoff bounds.
func WithRetry(maxRetries int, minWait, maxWait time.Duration) SessionOption {
	return func(s *Session) { s.SetRetry(maxRetries, minWait, maxWait) }
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) SessionOption {
	return func(s *Session) { s.SetHeader(key, value) }
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) SessionOption {
	return func(s *Session) { s.SetHeader("User-Agent", ua) }
}

// WithBasicAuth configures basic authentication.
func WithBasicAuth(username, password string) SessionOption {
	return func(s *Session) { s.SetBasicAuth(username, password) }
}

// WithBearerAuth configures bearer token authentication.
func WithBearerAuth(token string) SessionOption {
	return func(s *Session) { s.SetBearerAuth(token) }
}

// WithProxy routes requests through an HTTP(S) proxy.
func WithProxy(proxyURL string) SessionOption {
	return func(s *Session) { s.SetProxy(proxyURL) }
}

// WithInsecureSkipVerify disables TLS certificate verification.
// For testing against self-signed endpoints only.
func WithInsecureSkipVerify() SessionOption {
	return func(s *Session) { s.SetVerifyTLS(false) }
}

// WithClientCertificate presents a client certificate during the TLS
// handshake.
func WithClientCertificate(cert tls.Certificate) SessionOption {
	return func(s *Session) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resty.SetCertificates(cert)
	}
}

// WithRedirectLimit caps how many redirects a request may follow.
func WithRedirectLimit(limit int) SessionOption {
	return func(s *Session) { s.SetRedirectLimit(limit) }
}

// WithoutRedirects makes responses surface redirects instead of
// following them.
func WithoutRedirects() SessionOption {
	return func(s *Session) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resty.SetRedirectPolicy(resty.NoRedirectPolicy())
	}
}

// WithRateLimit paces requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) SessionOption {
	return func(s *Session) { s.SetRateLimit(rps, burst) }
}

// WithMinInterval enforces a minimum gap between successive requests.
func WithMinInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.gate = ratelimit.New(d, ratelimit.WithLogger(s.logger))
	}
}

// WithCache serves idempotent requests from an on-disk cache.
func WithCache(c *cache.Cache) SessionOption {
	return func(s *Session) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resty.SetTransport(cache.NewTransport(c, s.resty.GetClient().Transport))
	}
}

// WithSessionLogger sets the logger requests are traced to.
func WithSessionLogger(logger *logging.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SetHeader adds a default header.
func (s *Session) SetHeader(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetHeader(key, value)
}

// RemoveHeader removes a default header.
func (s *Session) RemoveHeader(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.Header.Del(key)
}

// Headers returns a copy of the default headers.
func (s *Session) Headers() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resty.Header.Clone()
}

// SetTimeout configures the request timeout.
func (s *Session) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetTimeout(d)
}

// SetRetry configures retry behavior.
func (s *Session) SetRetry(maxRetries int, minWait, maxWait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetRetryCount(maxRetries).
		SetRetryWaitTime(minWait).
		SetRetryMaxWaitTime(maxWait)
}

// SetRateLimit configures request pacing. rps of zero or less removes
// the limit.
func (s *Session) SetRateLimit(rps float64, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rps <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// SetBasicAuth configures basic authentication.
func (s *Session) SetBasicAuth(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetBasicAuth(username, password)
}

// SetBearerAuth configures bearer token authentication.
func (s *Session) SetBearerAuth(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetAuthToken(token)
}

// SetProxy routes requests through an HTTP(S) proxy.
func (s *Session) SetProxy(proxyURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetProxy(proxyURL)
}

// RemoveProxy removes the proxy configuration.
func (s *Session) RemoveProxy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.RemoveProxy()
}

// SetVerifyTLS toggles TLS certificate verification.
func (s *Session) SetVerifyTLS(verify bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: !verify})
}

// SetRedirectLimit caps how many redirects a request may follow.
func (s *Session) SetRedirectLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resty.SetRedirectPolicy(resty.FlexibleRedirectPolicy(limit))
}

// request waits for pacing admission and creates a request bound to ctx.
func (s *Session) request(ctx context.Context) (*resty.Request, error) {
	s.mu.RLock()
	gate := s.gate
	limiter := s.limiter
	s.mu.RUnlock()

	if gate != nil {
		if err := gate.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resty.R().SetContext(ctx), nil
}

// Close releases idle pooled connections. The session remains usable.
func (s *Session) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.resty.GetClient().CloseIdleConnections()
}
