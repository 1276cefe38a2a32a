package flatten

import (
	"maps"
	"slices"

	"github.com/ehsanranjbar/treeflat/tree"
)

// Output maps flattened keys to the leaves they were rendered from.
type Output map[string]tree.Leaf

// Keys returns the keys of o in ascending order.
func (o Output) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// Any converts o to a plain map of strings and []any.
func (o Output) Any() map[string]any {
	m := make(map[string]any, len(o))
	for k, v := range o {
		m[k] = tree.ToAny(v)
	}
	return m
}

// Leaves counts the scalar and array entries of o.
func (o Output) Leaves() (scalars, arrays int) {
	for _, v := range o {
		switch v.Kind() {
		case tree.ScalarKind:
			scalars++
		case tree.ArrayKind:
			arrays++
		}
	}
	return scalars, arrays
}
