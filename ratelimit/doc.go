// Package ratelimit paces repeated calls to shared resources.
//
// Gate enforces a minimum interval between successive calls, measured
// from the start of the previous call. It is safe for concurrent use;
// callers waiting on the same Gate serialize in lock-acquisition order.
package ratelimit
