package urlpath

import (
	"fmt"
	"strings"
)

// Path is the path component of a URL. The zero value is the empty
// relative path.
type Path struct {
	root     string
	segments []string
}

// Parse builds a Path from its string form. A leading slash marks the path
// absolute; repeated separators and "." segments collapse, while ".."
// segments are kept literal.
func Parse(s string) Path {
	var p Path
	if strings.HasPrefix(s, "/") {
		p.root = "/"
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." {
			continue
		}
		p.segments = append(p.segments, seg)
	}
	return p
}

// FromSegments builds a Path directly from a root marker and segments.
// Segments containing the separator are rejected.
func FromSegments(absolute bool, segments ...string) (Path, error) {
	var p Path
	if absolute {
		p.root = "/"
	}
	for _, seg := range segments {
		if strings.Contains(seg, "/") {
			return Path{}, fmt.Errorf("urlpath: segment %q contains a separator", seg)
		}
		if seg == "" {
			continue
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// String renders the path. It is stable: Parse(p.String()) equals p.
func (p Path) String() string {
	return p.root + strings.Join(p.segments, "/")
}

// IsAbsolute reports whether the path is rooted at "/".
func (p Path) IsAbsolute() bool {
	return p.root == "/"
}

// Root returns "/" for absolute paths and "" otherwise.
func (p Path) Root() string {
	return p.root
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Parts returns the root (when present) followed by the segments.
func (p Path) Parts() []string {
	var out []string
	if p.root != "" {
		out = append(out, p.root)
	}
	return append(out, p.segments...)
}

// IsEmpty reports whether the path has no root and no segments.
func (p Path) IsEmpty() bool {
	return p.root == "" && len(p.segments) == 0
}

// Equal reports component-wise equality.
func (p Path) Equal(other Path) bool {
	if p.root != other.root || len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// coerce interprets a join operand as a Path.
func coerce(op string, component any) (Path, error) {
	switch v := component.(type) {
	case string:
		return Parse(v), nil
	case Path:
		return v, nil
	case *Path:
		return *v, nil
	case fmt.Stringer:
		return Parse(v.String()), nil
	default:
		return Path{}, &UnsupportedOperandError{Op: op, Type: fmt.Sprintf("%T", component)}
	}
}

// Join appends components to the path. An absolute component discards
// everything accumulated before it. Components may be strings, Paths or
// any value with a String method; anything else yields an
// UnsupportedOperandError.
func (p Path) Join(components ...any) (Path, error) {
	result := p
	for _, component := range components {
		c, err := coerce("Join", component)
		if err != nil {
			return Path{}, err
		}
		result = result.join(c)
	}
	return result, nil
}

// JoinString appends string components with the same absolute-wins rule.
func (p Path) JoinString(elem ...string) Path {
	result := p
	for _, e := range elem {
		result = result.join(Parse(e))
	}
	return result
}

func (p Path) join(c Path) Path {
	if c.IsAbsolute() {
		return c
	}
	joined := Path{root: p.root}
	joined.segments = make([]string, 0, len(p.segments)+len(c.segments))
	joined.segments = append(joined.segments, p.segments...)
	joined.segments = append(joined.segments, c.segments...)
	return joined
}

// RelativeTo returns the suffix of p beyond other. Comparison is exact and
// component-wise; no case folding is applied. It fails with a RelationError
// when p does not begin with other's components or when the two paths do
// not agree on being absolute.
func (p Path) RelativeTo(other Path) (Path, error) {
	if p.root != other.root || len(other.segments) > len(p.segments) {
		return Path{}, &RelationError{Path: p.String(), Other: other.String()}
	}
	for i, seg := range other.segments {
		if p.segments[i] != seg {
			return Path{}, &RelationError{Path: p.String(), Other: other.String()}
		}
	}
	rest := p.segments[len(other.segments):]
	out := Path{segments: make([]string, len(rest))}
	copy(out.segments, rest)
	return out, nil
}

// Name returns the final segment, or "" when there is none.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Suffix returns the final segment's last extension including the leading
// period, e.g. ".txt".
func (p Path) Suffix() string {
	name := p.Name()
	if i := strings.LastIndex(name, "."); i > 0 && i < len(name)-1 {
		return name[i:]
	}
	return ""
}

// Suffixes returns all extensions of the final segment, e.g.
// [".tar", ".gz"].
func (p Path) Suffixes() []string {
	name := p.Name()
	if name == "" || strings.HasSuffix(name, ".") {
		return nil
	}
	parts := strings.Split(strings.TrimLeft(name, "."), ".")
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(parts)-1)
	for _, s := range parts[1:] {
		out = append(out, "."+s)
	}
	return out
}

// Stem returns the final segment minus its last suffix.
func (p Path) Stem() string {
	name := p.Name()
	return strings.TrimSuffix(name, p.Suffix())
}

// WithName returns a copy with the final segment replaced. It fails with an
// EmptyNameError when the path has no final segment to replace.
func (p Path) WithName(name string) (Path, error) {
	if p.Name() == "" {
		return Path{}, &EmptyNameError{Path: p.String()}
	}
	if name == "" || strings.Contains(name, "/") {
		return Path{}, fmt.Errorf("urlpath: invalid name %q", name)
	}
	out := Path{root: p.root, segments: make([]string, len(p.segments))}
	copy(out.segments, p.segments)
	out.segments[len(out.segments)-1] = name
	return out, nil
}

// WithSuffix returns a copy with the final segment's suffix changed. An
// empty suffix strips the existing one; when the segment has no suffix the
// given one is appended. A non-empty suffix must begin with a period.
func (p Path) WithSuffix(suffix string) (Path, error) {
	if suffix != "" && (!strings.HasPrefix(suffix, ".") || suffix == "." || strings.ContainsAny(suffix, "/")) {
		return Path{}, fmt.Errorf("urlpath: invalid suffix %q", suffix)
	}
	if p.Name() == "" {
		return Path{}, &EmptyNameError{Path: p.String()}
	}
	return p.WithName(p.Stem() + suffix)
}

// Absolute returns the path rooted at "/", leaving the segments unchanged.
func (p Path) Absolute() Path {
	out := Path{root: "/", segments: make([]string, len(p.segments))}
	copy(out.segments, p.segments)
	return out
}

// Parent returns the path without its final segment. The parent of a root
// or empty path is itself.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	out := Path{root: p.root, segments: make([]string, len(p.segments)-1)}
	copy(out.segments, p.segments[:len(p.segments)-1])
	return out
}

// Parents returns the logical ancestors, nearest first, ending at the root
// (or at the empty path for relative paths).
func (p Path) Parents() []Path {
	var out []Path
	cur := p
	for {
		next := cur.Parent()
		if next.Equal(cur) {
			return out
		}
		out = append(out, next)
		cur = next
	}
}

// Match is not supported for URL paths and always returns
// ErrNotImplemented.
func (p Path) Match(pattern string) (bool, error) {
	return false, ErrNotImplemented
}

// AsURI is not supported for URL paths and always returns
// ErrNotImplemented.
func (p Path) AsURI() (string, error) {
	return "", ErrNotImplemented
}
