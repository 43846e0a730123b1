package urlkit

import (
	"errors"
	"fmt"
)

// ErrRelativePath is returned by RelativeTo when the other operand is a
// relative path, which is ambiguous at the URL level.
var ErrRelativePath = errors.New("urlkit: RelativeTo cannot be used with a relative path")

// UnsupportedOperandError reports a Div or JoinURL operand of a kind that
// cannot be interpreted as a path component.
type UnsupportedOperandError struct {
	Op   string
	Type string
}

func (e *UnsupportedOperandError) Error() string {
	return fmt.Sprintf("urlkit: unsupported operand type for %s: %s", e.Op, e.Type)
}

// RelationError reports a failed RelativeTo between two URLs. Both string
// forms are carried for diagnostics.
type RelationError struct {
	URL   string
	Other string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("urlkit: %q does not start with %q", e.URL, e.Other)
}
