package qlutil

import (
	"fmt"
	"time"

	qlvalue "github.com/araddon/qlbridge/value"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/tree"
)

// IdKey is the identity that resolves to the document id.
const IdKey = "_id"

// ContextWrapper exposes a flattened document as a qlbridge.ContextReader.
// Identities are looked up as flattened keys, e.g. `b.c`.
type ContextWrapper[I fmt.Stringer] struct {
	id  I
	row flatten.Output
}

// NewContextWrapper creates a new ContextWrapper.
func NewContextWrapper[I fmt.Stringer](id I, row flatten.Output) *ContextWrapper[I] {
	return &ContextWrapper[I]{
		id:  id,
		row: row,
	}
}

// Get implements the qlbridge.ContextReader interface.
func (c *ContextWrapper[I]) Get(key string) (qlvalue.Value, bool) {
	if key == IdKey {
		return qlvalue.NewStringValue(c.id.String()), true
	}

	leaf, ok := c.row[key]
	if !ok {
		return qlvalue.NewErrorValue(fmt.Errorf("key %q not found", key)), false
	}
	return qlvalue.NewValue(tree.ToAny(leaf)), true
}

// Row implements the qlbridge.ContextReader interface.
func (c *ContextWrapper[I]) Row() map[string]qlvalue.Value {
	row := make(map[string]qlvalue.Value, len(c.row)+1)
	for k, v := range c.row {
		row[k] = qlvalue.NewValue(tree.ToAny(v))
	}
	row[IdKey] = qlvalue.NewStringValue(c.id.String())
	return row
}

// Ts implements the qlbridge.ContextReader interface.
// Documents carry no timestamp.
func (c *ContextWrapper[I]) Ts() time.Time { return time.Time{} }
