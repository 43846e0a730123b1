// Package urlpath implements the path portion of a URL as an immutable
// value type with POSIX join semantics.
//
// A Path is a root marker ("/" or empty) plus an ordered list of segments.
// It deliberately covers only the subset of filesystem-path behavior that
// makes sense for URLs: there are no drive letters, no globbing and no
// file-URI rendering. Match and AsURI exist only to report
// ErrNotImplemented so callers can tell a design restriction apart from
// bad input, and Paths are not ordered.
//
// All operations return new values; a Path is never mutated in place.
package urlpath
