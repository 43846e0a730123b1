package urlkit

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Equal is the loose equality relation: scheme, netloc and path match,
// query and fragment excluded. It is the default relation of the type, so
// Div-derived children compare naturally against a handle that ignores
// transient query state.
func (u URL) Equal(other URL) bool {
	return u.Scheme == other.Scheme &&
		u.Netloc == other.Netloc &&
		u.Path.Equal(other.Path)
}

// StrictEqual additionally requires the query and fragment to match.
func (u URL) StrictEqual(other URL) bool {
	if !u.Equal(other) {
		return false
	}
	if (u.Fragment == nil) != (other.Fragment == nil) {
		return false
	}
	if u.Fragment != nil && *u.Fragment != *other.Fragment {
		return false
	}
	return queryEqual(u.Query, other.Query)
}

func queryEqual(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for key, values := range a {
		if !slices.Equal(values, b[key]) {
			return false
		}
	}
	return true
}

// Hash returns a digest over the loose-equality fields only, so
// loosely-equal URLs hash equally and the value can key a map or populate
// a set.
func (u URL) Hash() string {
	h := sha256.New()
	for _, part := range []string{u.Scheme, u.Netloc, u.Path.String()} {
		h.Write([]byte(part))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compare orders URLs lexicographically over (scheme, subdomain, domain,
// suffix, port-or-zero, path segments). The ordering exists for
// deterministic sorting and is deliberately distinct from both equality
// relations.
func (u URL) Compare(other URL) int {
	d, od := u.Domain(), other.Domain()
	for _, pair := range [...][2]string{
		{u.Scheme, other.Scheme},
		{d.Subdomain, od.Subdomain},
		{d.Domain, od.Domain},
		{d.Suffix, od.Suffix},
	} {
		if c := strings.Compare(pair[0], pair[1]); c != 0 {
			return c
		}
	}

	port, _ := u.Port()
	otherPort, _ := other.Port()
	if port != otherPort {
		if port < otherPort {
			return -1
		}
		return 1
	}

	return slices.Compare(u.Path.Segments(), other.Path.Segments())
}

// Less reports whether u sorts before other.
func (u URL) Less(other URL) bool {
	return u.Compare(other) < 0
}
