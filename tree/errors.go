package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehsanranjbar/treeflat/internal/ordmap"
)

var (
	// ErrShape is matched by every ShapeError.
	ErrShape = errors.New("unsupported node shape")
	// ErrKeyExists is returned when a container already holds a key.
	ErrKeyExists = ordmap.ErrKeyExists
	// ErrPathNotFound is returned when a dotted key does not lead to a node.
	ErrPathNotFound = errors.New("path not found")
)

// ShapeError reports a value that is none of Scalar, Array or Container.
type ShapeError struct {
	Path  []string
	Value any
}

func (e *ShapeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %T at root", ErrShape, e.Value)
	}
	return fmt.Sprintf("%s: %T at %q", ErrShape, e.Value, strings.Join(e.Path, "."))
}

// Unwrap returns ErrShape.
func (e *ShapeError) Unwrap() error { return ErrShape }
