package flatten

import "github.com/ehsanranjbar/treeflat/tree"

// Flatter is an interface for flattening a hierarchy of values to a map of paths -> values.
type Flatter[T any] interface {
	Flatten(t T) (map[string]any, error)
}

// AnyFlatter flattens already decoded documents such as the map[string]any produced by json.Unmarshal.
type AnyFlatter struct {
	f    *Flattener
	opts []tree.ConvertOption
}

var _ Flatter[any] = AnyFlatter{}

// NewAnyFlatter creates an AnyFlatter. A nil f means the default settings.
func NewAnyFlatter(f *Flattener, opts ...tree.ConvertOption) AnyFlatter {
	if f == nil {
		f = defaultFlattener
	}
	return AnyFlatter{f: f, opts: opts}
}

// Flatten implements the Flatter interface.
func (a AnyFlatter) Flatten(v any) (map[string]any, error) {
	f := a.f
	if f == nil {
		f = defaultFlattener
	}

	root, err := tree.ContainerFromAny(v, a.opts...)
	if err != nil {
		return nil, err
	}

	out, err := f.Flatten(root)
	if err != nil {
		return nil, err
	}
	return out.Any(), nil
}
