package urlpath

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by operations that are deliberately
// unsupported on URL paths, as opposed to failing for a particular input.
var ErrNotImplemented = errors.New("urlpath: operation not implemented for URL paths")

// UnsupportedOperandError reports a join operand of a kind that cannot be
// interpreted as a path component.
type UnsupportedOperandError struct {
	Op   string
	Type string
}

func (e *UnsupportedOperandError) Error() string {
	return fmt.Sprintf("urlpath: unsupported operand type for %s: %s", e.Op, e.Type)
}

// RelationError reports a failed RelativeTo: the receiver does not begin
// with the other path's components. Both string forms are carried for
// diagnostics.
type RelationError struct {
	Path  string
	Other string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("urlpath: %q does not start with %q", e.Path, e.Other)
}

// EmptyNameError reports a name-changing operation on a path whose final
// segment is empty.
type EmptyNameError struct {
	Path string
}

func (e *EmptyNameError) Error() string {
	return fmt.Sprintf("urlpath: %q has an empty name", e.Path)
}
