package urlkit

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/urlkit/urlkit/urlpath"
)

// Div constructs a child URL from a single additional component, the "/"
// operator of the path algebra. The component may be a string, an integer
// (stringified), a urlpath.Path, another URL, or any value with a String
// method; anything else yields an UnsupportedOperandError.
//
// The child inherits the receiver's scheme and netloc. Its query and
// fragment come from the component itself when the component is
// URL-shaped (contains "?" or "#"); the receiver's query and fragment
// never leak into the child. An absolute component replaces the
// receiver's path entirely.
func (u URL) Div(component any) (URL, error) {
	return u.child("Div", component)
}

// JoinURL combines several path components in one call, the plural form
// of Div. Only the last component's own query and fragment survive;
// earlier components contribute path segments only, with the same
// absolute-wins rule as urlpath.Path.Join.
func (u URL) JoinURL(components ...any) (URL, error) {
	result := u
	for _, component := range components {
		child, err := result.child("JoinURL", component)
		if err != nil {
			return URL{}, err
		}
		result = child
	}
	return result, nil
}

func (u URL) child(op string, component any) (URL, error) {
	switch v := component.(type) {
	case string:
		return u.childFromString(v), nil
	case urlpath.Path:
		return u.childFromPath(v, nil, nil), nil
	case *urlpath.Path:
		return u.childFromPath(*v, nil, nil), nil
	case int:
		return u.childFromString(fmt.Sprint(v)), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return u.childFromString(fmt.Sprint(v)), nil
	case fmt.Stringer:
		return u.childFromString(v.String()), nil
	default:
		return URL{}, &UnsupportedOperandError{Op: op, Type: fmt.Sprintf("%T", component)}
	}
}

// childFromString splits a URL-shaped component into its own path, query
// and fragment before joining.
func (u URL) childFromString(s string) URL {
	ref, err := url.Parse(s)
	if err != nil {
		return u.childFromPath(urlpath.Parse(s), nil, nil)
	}

	var query url.Values
	if ref.RawQuery != "" {
		query, _ = url.ParseQuery(ref.RawQuery)
	}
	var fragment *string
	if strings.Contains(s, "#") {
		frag := ref.Fragment
		fragment = &frag
	}

	// Escaped form, as in Parse: joining must not decode the component.
	path := ref.EscapedPath()
	if ref.Opaque != "" {
		path = ref.Opaque
	}
	return u.childFromPath(urlpath.Parse(path), query, fragment)
}

func (u URL) childFromPath(component urlpath.Path, query url.Values, fragment *string) URL {
	joined := component
	if !component.IsAbsolute() {
		joined = u.Path.JoinString(component.String())
	}
	return fromParts(u.Scheme, u.Netloc, joined, query, fragment)
}

// RelativeTo returns the path suffix of u beyond other. The other operand
// may be a URL (or any URLLike), a string parsed as a URL, or an absolute
// urlpath.Path.
//
// When other carries a netloc it must match the receiver's
// case-insensitively (RFC 4343 host comparison; neither value is
// mutated). Both paths are forced absolute before comparing, so a
// caller-reassigned relative Path still participates. A relative
// urlpath.Path operand fails immediately with ErrRelativePath: relative
// against relative is permitted at the path level but ambiguous at the
// URL level, and the asymmetry is deliberate.
func (u URL) RelativeTo(other any) (urlpath.Path, error) {
	switch v := other.(type) {
	case urlpath.Path:
		if !v.IsAbsolute() {
			return urlpath.Path{}, fmt.Errorf("%w: %q", ErrRelativePath, v.String())
		}
		return u.pathRelativeTo(u.String(), v.String(), v)
	case *urlpath.Path:
		return u.RelativeTo(*v)
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return urlpath.Path{}, err
		}
		return u.urlRelativeTo(parsed)
	case URLLike:
		return u.urlRelativeTo(v.URLValue())
	default:
		return urlpath.Path{}, &UnsupportedOperandError{Op: "RelativeTo", Type: fmt.Sprintf("%T", other)}
	}
}

func (u URL) urlRelativeTo(other URL) (urlpath.Path, error) {
	if other.Netloc != "" && !strings.EqualFold(u.Netloc, other.Netloc) {
		return urlpath.Path{}, &RelationError{URL: u.String(), Other: other.String()}
	}
	return u.pathRelativeTo(u.String(), other.String(), other.Path.Absolute())
}

func (u URL) pathRelativeTo(self, otherForm string, other urlpath.Path) (urlpath.Path, error) {
	rel, err := u.Path.Absolute().RelativeTo(other)
	if err != nil {
		return urlpath.Path{}, &RelationError{URL: self, Other: otherForm}
	}
	return rel, nil
}
