package flatten

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is matched by every CycleError.
	ErrCycle = errors.New("cycle detected")
	// ErrDepthExceeded is matched by every DepthError.
	ErrDepthExceeded = errors.New("maximum depth exceeded")
	// ErrCollision is matched by every CollisionError.
	ErrCollision = errors.New("key collision")
)

// CycleError is returned when a container is reached again below itself.
type CycleError struct {
	// Path of the second visit.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: container at %q is its own ancestor", ErrCycle, strings.Join(e.Path, Separator))
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// DepthError is returned when a path grows beyond the configured maximum depth.
type DepthError struct {
	Path []string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: %q has %d segments, limit is %d", ErrDepthExceeded, strings.Join(e.Path, Separator), len(e.Path), e.Max)
}

// Unwrap returns ErrDepthExceeded.
func (e *DepthError) Unwrap() error { return ErrDepthExceeded }

// CollisionError reports distinct paths that render to the same key, in visiting order.
type CollisionError struct {
	Key   string
	Paths [][]string
}

func (e *CollisionError) Error() string {
	paths := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		paths[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("%s: %q is rendered from %s", ErrCollision, e.Key, strings.Join(paths, " and "))
}

// Unwrap returns ErrCollision.
func (e *CollisionError) Unwrap() error { return ErrCollision }
