// Package urlkit provides a path-like value type for URLs.
//
// A URL combines scheme, netloc, path, query and fragment, and supports
// the manipulation algebra of a filesystem path (Div for child
// construction, JoinURL, Parent, RelativeTo, WithName, WithSuffix)
// while preserving URL semantics: query strings, fragments, ports and
// public-suffix domain decomposition.
//
// Three relations are defined. Equal is the loose relation over scheme,
// netloc and path only, so children derived through Div compare naturally
// against a handle that ignores transient query state. StrictEqual also
// requires query and fragment to match. Compare orders URLs over
// (scheme, subdomain, domain, suffix, port, path segments) for
// deterministic sorting and is distinct from both equality relations.
//
// URL values are immutable by convention: every operation returns a new
// value. The one sanctioned exception is direct reassignment of the Path
// field by a caller that wants to rewrite the path in place.
//
// The subpackages layer optional behavior on top of the value type:
// urlpath (the path model), domain (suffix-list decomposition), client
// (HTTP verb methods over a shared session), ratelimit (a
// minimum-interval gate), cache (a disk-backed response cache) and email
// (address syntax validation).
package urlkit
