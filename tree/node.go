package tree

import (
	"iter"

	"github.com/ehsanranjbar/treeflat/internal/ordmap"
)

// Kind identifies which variant of Node a value is.
type Kind uint8

const (
	InvalidKind Kind = iota
	ScalarKind
	ArrayKind
	ContainerKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "Scalar"
	case ArrayKind:
		return "Array"
	case ContainerKind:
		return "Container"
	default:
		return "<invalid kind>"
	}
}

// IsLeaf reports whether nodes of kind k are terminal.
func (k Kind) IsLeaf() bool {
	return k == ScalarKind || k == ArrayKind
}

// Node is a value of a tree. The only implementations are Scalar, Array and *Container.
type Node interface {
	Kind() Kind
	node()
}

// Leaf is a terminal Node, either a Scalar or an Array.
type Leaf interface {
	Node
	leaf()
}

// Scalar is a terminal string value.
type Scalar string

// Kind implements the Node interface.
func (Scalar) Kind() Kind { return ScalarKind }

func (Scalar) node() {}
func (Scalar) leaf() {}

// Array is an ordered sequence of arbitrary values. It is a leaf and is never descended into.
type Array []any

// Kind implements the Node interface.
func (Array) Kind() Kind { return ArrayKind }

func (Array) node() {}
func (Array) leaf() {}

// Container maps unique string keys to child nodes and remembers insertion order.
// The zero value is an empty container ready to use.
type Container struct {
	entries *ordmap.Map[string, Node]
}

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{entries: ordmap.New[string, Node]()}
}

// Kind implements the Node interface.
func (*Container) Kind() Kind { return ContainerKind }

func (*Container) node() {}

func (c *Container) lazyInit() {
	if c.entries == nil {
		c.entries = ordmap.New[string, Node]()
	}
}

// Add appends a child under key. It returns ErrKeyExists if key is already present.
func (c *Container) Add(key string, n Node) error {
	c.lazyInit()
	return c.entries.Add(key, n)
}

// Set stores n under key, keeping the position of an existing key.
func (c *Container) Set(key string, n Node) {
	c.lazyInit()
	c.entries.Set(key, n)
}

// With is like Set but returns c so that literals can be chained.
func (c *Container) With(key string, n Node) *Container {
	c.Set(key, n)
	return c
}

// Get returns the child stored under key.
func (c *Container) Get(key string) (Node, bool) {
	if c == nil || c.entries == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

// Delete removes key and reports whether it was present.
func (c *Container) Delete(key string) bool {
	if c == nil || c.entries == nil {
		return false
	}
	return c.entries.Delete(key)
}

// Len returns the number of children.
func (c *Container) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Keys returns the keys in insertion order.
func (c *Container) Keys() []string {
	if c == nil || c.entries == nil {
		return nil
	}
	return c.entries.Keys()
}

// Iter iterates over the children in insertion order.
func (c *Container) Iter() iter.Seq2[string, Node] {
	if c == nil || c.entries == nil {
		return func(func(string, Node) bool) {}
	}
	return c.entries.Iter()
}
