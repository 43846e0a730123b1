package urlkit

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/urlkit/urlkit/domain"
	"github.com/urlkit/urlkit/urlpath"
)

// URL is the path-like representation of an absolute or relative URL.
//
// Scheme and Netloc may be empty. Query maps parameter names to ordered
// value lists; value order within a key is preserved, key order is not
// significant. Fragment is nil when the URL has no "#" marker; a marker
// with nothing after it is kept as a pointer to the empty string, so the
// string form round-trips losslessly.
//
// Direct reassignment of Path is the one sanctioned mutation; every other
// operation derives a new value.
type URL struct {
	Scheme   string
	Netloc   string
	Path     urlpath.Path
	Query    url.Values
	Fragment *string
}

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// Parse builds a URL from its string form. Strings that do not begin with
// a scheme or with "//" have "//" prepended first, so bare "host/path"
// strings parse their netloc instead of becoming a relative path.
func Parse(raw string) (URL, error) {
	s := raw
	if s != "" && !schemePattern.MatchString(s) && !strings.HasPrefix(s, "//") {
		s = "//" + s
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return URL{}, err
	}

	// Keep the escaped form: decoding would turn %3F into a literal "?"
	// and break the parse/render round trip. Opaque bodies (mailto:) are
	// carried as the path.
	path := parsed.EscapedPath()
	if parsed.Opaque != "" {
		path = parsed.Opaque
	}

	u := URL{
		Scheme: parsed.Scheme,
		Netloc: authority(parsed),
		Path:   urlpath.Parse(path),
	}
	if parsed.RawQuery != "" {
		// Best effort: ParseQuery reports bad escapes but still returns
		// everything it understood.
		q, _ := url.ParseQuery(parsed.RawQuery)
		if len(q) > 0 {
			u.Query = q
		}
	}
	if strings.Contains(raw, "#") {
		frag := parsed.Fragment
		u.Fragment = &frag
	}
	return u, nil
}

// MustParse is Parse for known-good input; it panics on error.
func MustParse(raw string) URL {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

func authority(parsed *url.URL) string {
	if parsed.User != nil {
		return parsed.User.String() + "@" + parsed.Host
	}
	return parsed.Host
}

// FromParts assembles a URL from a scheme, netloc and path. The path is
// forced root-absolute: a path inside a URL with an authority is always
// anchored at "/".
func FromParts(scheme, netloc string, path urlpath.Path) URL {
	return fromParts(scheme, netloc, path, nil, nil)
}

func fromParts(scheme, netloc string, path urlpath.Path, query url.Values, fragment *string) URL {
	return URL{
		Scheme:   scheme,
		Netloc:   netloc,
		Path:     path.Absolute(),
		Query:    query,
		Fragment: fragment,
	}
}

// String renders the URL. An empty scheme never leaks a leading "//"; the
// query is re-encoded preserving per-key value order.
func (u URL) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(u.Netloc)
	b.WriteString(u.Path.String())
	if len(u.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(u.Query.Encode())
	}
	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}
	return b.String()
}

// URLValue returns the URL itself. Richer flavors that embed URL inherit
// it, letting the algebra accept any of them interchangeably.
func (u URL) URLValue() URL {
	return u
}

// URLLike is satisfied by URL and by every type that embeds one, such as
// the client package's session-bound flavors.
type URLLike interface {
	URLValue() URL
}

// Name returns the final path component, if any.
func (u URL) Name() string {
	return u.Path.Name()
}

// Suffix returns the final component's last extension, with the leading
// period.
func (u URL) Suffix() string {
	return u.Path.Suffix()
}

// Suffixes returns all of the final component's extensions.
func (u URL) Suffixes() []string {
	return u.Path.Suffixes()
}

// Stem returns the final path component minus its last suffix.
func (u URL) Stem() string {
	return u.Path.Stem()
}

// WithName returns a copy with the final path component replaced and the
// query and fragment cleared.
func (u URL) WithName(name string) (URL, error) {
	p, err := u.Path.WithName(name)
	if err != nil {
		return URL{}, err
	}
	return fromParts(u.Scheme, u.Netloc, p, nil, nil), nil
}

// WithNameInherit is WithName keeping the receiver's query and fragment.
func (u URL) WithNameInherit(name string) (URL, error) {
	p, err := u.Path.WithName(name)
	if err != nil {
		return URL{}, err
	}
	return fromParts(u.Scheme, u.Netloc, p, u.Query, u.Fragment), nil
}

// WithSuffix returns a copy with the final component's suffix changed and
// the query and fragment cleared. An empty suffix strips the existing one;
// when the component has no suffix the given one is appended.
func (u URL) WithSuffix(suffix string) (URL, error) {
	p, err := u.Path.WithSuffix(suffix)
	if err != nil {
		return URL{}, err
	}
	return fromParts(u.Scheme, u.Netloc, p, nil, nil), nil
}

// WithSuffixInherit is WithSuffix keeping the receiver's query and
// fragment.
func (u URL) WithSuffixInherit(suffix string) (URL, error) {
	p, err := u.Path.WithSuffix(suffix)
	if err != nil {
		return URL{}, err
	}
	return fromParts(u.Scheme, u.Netloc, p, u.Query, u.Fragment), nil
}

// Parent returns the logical parent, with the query and fragment cleared.
func (u URL) Parent() URL {
	return FromParts(u.Scheme, u.Netloc, u.Path.Parent())
}

// Parents returns the logical ancestors, nearest first.
func (u URL) Parents() []URL {
	paths := u.Path.Parents()
	out := make([]URL, 0, len(paths))
	for _, p := range paths {
		out = append(out, FromParts(u.Scheme, u.Netloc, p))
	}
	return out
}

// Parts returns the scheme, the decomposed domain and the path segments
// as one flat sequence.
func (u URL) Parts() []string {
	d := u.Domain()
	return append([]string{u.Scheme, d.Subdomain, d.Domain, d.Suffix}, u.Path.Segments()...)
}

// Domain decomposes the netloc, port excluded.
func (u URL) Domain() domain.Domain {
	return domain.Extract(u.Netloc)
}

// FQDN returns the fully qualified domain name of the netloc, or "" when
// it has no registrable domain.
func (u URL) FQDN() string {
	return u.Domain().FQDN()
}

// Port returns the port parsed from the netloc, and whether one was
// present.
func (u URL) Port() (int, bool) {
	colon := strings.LastIndex(u.Netloc, ":")
	if colon == -1 || colon == len(u.Netloc)-1 {
		return 0, false
	}
	port, err := strconv.Atoi(u.Netloc[colon+1:])
	if err != nil {
		return 0, false
	}
	return port, true
}

// BaseURL returns a copy with the query and fragment cleared. It is
// idempotent.
func (u URL) BaseURL() URL {
	return FromParts(u.Scheme, u.Netloc, u.Path)
}
