// Package cache provides an on-disk HTTP response cache.
//
// Entries live under a per-application directory (os.UserCacheDir by
// default) keyed by a digest of the request. Bodies are stored
// gzip-compressed inside JSON-encoded entry files. Transport plugs the
// cache into any http.Client as a RoundTripper; only GET and HEAD
// responses are cached, and stale entries are refetched transparently.
package cache
