// Package config provides 12-factor configuration for the urlkit HTTP layer.
//
// Configuration is loaded from environment variables with sensible defaults.
// Programmatic options on the client always win over the environment.
//
// Configuration Sections:
//   - HTTP: session timeout, retry policy, redirect limit, user agent
//   - Cache: on-disk response cache location and freshness window
//   - RateLimit: outbound request pacing
//   - Logging: log level and output format
//
// Environment Variables:
//   - URLKIT_HTTP_TIMEOUT, URLKIT_HTTP_RETRY_MAX, URLKIT_HTTP_RETRY_WAIT_MIN,
//     URLKIT_HTTP_RETRY_WAIT_MAX, URLKIT_HTTP_MAX_REDIRECTS, URLKIT_HTTP_USER_AGENT
//   - URLKIT_CACHE_DIR, URLKIT_CACHE_MAX_AGE
//   - URLKIT_RATE_LIMIT_RPS, URLKIT_RATE_LIMIT_BURST
//   - URLKIT_LOG_LEVEL, URLKIT_LOG_DEV
package config
