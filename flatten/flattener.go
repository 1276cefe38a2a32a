package flatten

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Separator joins path segments into an output key.
const Separator = "."

// CollisionPolicy decides what happens when two distinct paths render to the same key.
type CollisionPolicy uint8

const (
	// Overwrite keeps the leaf of the path visited last.
	Overwrite CollisionPolicy = iota
	// Reject aborts the traversal with a *CollisionError.
	Reject
)

func (p CollisionPolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", uint8(p))
	}
}

// ParseCollisionPolicy parses the name of a collision policy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(s) {
	case "", "overwrite":
		return Overwrite, nil
	case "reject":
		return Reject, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q", s)
	}
}

// Flattener turns a tree into a flat mapping of dot-joined paths to leaves.
//
// The traversal is depth-first and visits container entries in insertion
// order, which is also the order in which colliding keys overwrite each other.
// A Flattener only holds settings and is safe for concurrent use.
type Flattener struct {
	maxDepth int
	policy   CollisionPolicy
	logger   logrus.FieldLogger
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithMaxDepth bounds the number of segments of any path. Zero means no bound.
func WithMaxDepth(n int) Option {
	return func(f *Flattener) {
		f.maxDepth = n
	}
}

// WithCollisionPolicy sets the collision policy. The default is Overwrite.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(f *Flattener) {
		f.policy = p
	}
}

// WithLogger sets the logger that receives overwrite notices at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Flattener) {
		f.logger = l
	}
}

// New creates a new Flattener.
func New(opts ...Option) *Flattener {
	f := &Flattener{
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFlattener = New()

// Flatten flattens root with the default settings.
func Flatten(root *tree.Container) (Output, error) {
	return defaultFlattener.Flatten(root)
}

// Flatten flattens root into a new Output.
//
// It fails fast: a nil node yields a *tree.ShapeError, a container that is its
// own ancestor a *CycleError, a path longer than the configured maximum a
// *DepthError and, under the Reject policy, a collision a *CollisionError.
// The Output is returned even on error and holds the entries written so far.
func (f *Flattener) Flatten(root *tree.Container) (Output, error) {
	out := make(Output)
	err := f.FlattenInto(root, out)
	return out, err
}

// FlattenInto flattens root into out, overwriting existing keys.
// Collisions are only detected between paths of this traversal.
func (f *Flattener) FlattenInto(root *tree.Container, out Output) error {
	if root == nil {
		return &tree.ShapeError{Value: root}
	}

	w := f.newWalk(out)
	return w.visit(root)
}

// Collisions walks root and reports every key that more than one path renders to.
// The returned error is a *multierror.Error of *CollisionError, or nil.
func Collisions(root *tree.Container) error {
	if root == nil {
		return &tree.ShapeError{Value: root}
	}

	var report *multierror.Error
	w := defaultFlattener.newWalk(make(Output))
	w.collide = func(key string, prev []string) error {
		report = multierror.Append(report, &CollisionError{
			Key:   key,
			Paths: [][]string{prev, slices.Clone(w.path)},
		})
		return nil
	}
	if err := w.visit(root); err != nil {
		return err
	}
	return report.ErrorOrNil()
}

type walk struct {
	f       *Flattener
	out     Output
	path    []string
	active  map[*tree.Container]struct{}
	sources map[string][]string
	collide func(key string, prev []string) error
}

func (f *Flattener) newWalk(out Output) *walk {
	w := &walk{
		f:       f,
		out:     out,
		active:  make(map[*tree.Container]struct{}),
		sources: make(map[string][]string),
	}
	w.collide = w.onCollision
	return w
}

func (w *walk) visit(n tree.Node) error {
	switch n := n.(type) {
	case tree.Scalar:
		return w.emit(n)
	case tree.Array:
		return w.emit(n)
	case *tree.Container:
		if n == nil {
			return &tree.ShapeError{Path: slices.Clone(w.path), Value: n}
		}
		if _, ok := w.active[n]; ok {
			return &CycleError{Path: slices.Clone(w.path)}
		}

		w.active[n] = struct{}{}
		defer delete(w.active, n)

		for key, child := range n.Iter() {
			w.path = append(w.path, key)
			if w.f.maxDepth > 0 && len(w.path) > w.f.maxDepth {
				return &DepthError{Path: slices.Clone(w.path), Max: w.f.maxDepth}
			}

			err := w.visit(child)
			w.path = w.path[:len(w.path)-1]
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return &tree.ShapeError{Path: slices.Clone(w.path), Value: n}
	}
}

func (w *walk) emit(leaf tree.Leaf) error {
	key := strings.Join(w.path, Separator)
	if prev, ok := w.sources[key]; ok {
		if err := w.collide(key, prev); err != nil {
			return err
		}
	}

	w.sources[key] = slices.Clone(w.path)
	w.out[key] = leaf
	return nil
}

func (w *walk) onCollision(key string, prev []string) error {
	if w.f.policy == Reject {
		return &CollisionError{
			Key:   key,
			Paths: [][]string{prev, slices.Clone(w.path)},
		}
	}

	w.f.logger.WithFields(logrus.Fields{
		"key":      key,
		"previous": fmt.Sprintf("%q", prev),
		"current":  fmt.Sprintf("%q", w.path),
	}).Debug("flattened key overwritten")
	return nil
}
