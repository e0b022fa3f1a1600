package node

import (
	"errors"
	"fmt"
)

var (
	// ErrAttached is returned when a node that already belongs to a tree is
	// attached to another parent. Use Clone to copy a subtree.
	ErrAttached = errors.New("node: node already has a parent")

	// ErrIndexOutOfRange is returned by Set on a sequence index past the end.
	ErrIndexOutOfRange = errors.New("node: sequence index out of range")

	// ErrEmptyPath is returned when an operation needs at least one segment.
	ErrEmptyPath = errors.New("node: empty path")

	// ErrInvalidPath is returned by ParsePath for malformed input.
	ErrInvalidPath = errors.New("node: invalid path")
)

// WrongKindError reports a node whose tag does not match the requested kind.
type WrongKindError struct {
	Path Path
	Want Kind
	Got  Kind
}

func (e *WrongKindError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("node: expected %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("node: expected %s at %s, got %s", e.Want, e.Path, e.Got)
}
