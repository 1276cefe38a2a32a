package tree

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
)

// ConvertOption configures FromAny.
type ConvertOption func(*converter)

type converter struct {
	stringify bool
}

// WithStringify makes FromAny render booleans, numbers and nil as Scalars
// ("true", "42", "null") instead of failing with a ShapeError.
func WithStringify() ConvertOption {
	return func(c *converter) {
		c.stringify = true
	}
}

// FromAny converts a decoded Go value into a Node.
//
// Strings become Scalars, slices become Arrays and string-keyed maps become
// Containers. Keys of a plain map are inserted in ascending order; keys of a
// yaml.MapSlice keep their document order. Anything else is reported as a
// *ShapeError.
func FromAny(v any, opts ...ConvertOption) (Node, error) {
	var c converter
	for _, opt := range opts {
		opt(&c)
	}

	return c.convert(nil, v)
}

// ContainerFromAny is like FromAny but requires v to convert to a Container.
func ContainerFromAny(v any, opts ...ConvertOption) (*Container, error) {
	n, err := FromAny(v, opts...)
	if err != nil {
		return nil, err
	}

	ctr, ok := n.(*Container)
	if !ok {
		return nil, &ShapeError{Value: v}
	}
	return ctr, nil
}

func (c converter) convert(path []string, v any) (Node, error) {
	switch v := v.(type) {
	case *Container:
		if v == nil {
			break
		}
		return v, nil
	case Scalar:
		return v, nil
	case Array:
		return v, nil
	case string:
		return Scalar(v), nil
	case []string:
		arr := make(Array, len(v))
		for i, s := range v {
			arr[i] = s
		}
		return arr, nil
	case []any:
		return Array(plainSlice(v)), nil
	case map[string]any:
		ctr := NewContainer()
		for _, k := range slices.Sorted(maps.Keys(v)) {
			child, err := c.convert(append(path, k), v[k])
			if err != nil {
				return nil, err
			}
			ctr.Set(k, child)
		}
		return ctr, nil
	case yaml.MapSlice:
		ctr := NewContainer()
		for _, item := range v {
			k, ok := item.Key.(string)
			if !ok {
				if !c.stringify {
					return nil, &ShapeError{Path: slices.Clone(path), Value: item.Key}
				}
				k = fmt.Sprint(item.Key)
			}

			child, err := c.convert(append(path, k), item.Value)
			if err != nil {
				return nil, err
			}
			if err := ctr.Add(k, child); err != nil {
				return nil, fmt.Errorf("failed to add key %q: %w", k, err)
			}
		}
		return ctr, nil
	}

	if c.stringify {
		if s, ok := stringify(v); ok {
			return Scalar(s), nil
		}
	}
	return nil, &ShapeError{Path: slices.Clone(path), Value: v}
}

func stringify(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// plainSlice replaces ordered YAML maps nested in s with plain maps so that
// array leaves only hold JSON-like values.
func plainSlice(s []any) []any {
	for i, v := range s {
		s[i] = plainValue(v)
	}
	return s
}

func plainValue(v any) any {
	switch v := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(v))
		for _, item := range v {
			m[fmt.Sprint(item.Key)] = plainValue(item.Value)
		}
		return m
	case []any:
		return plainSlice(v)
	default:
		return v
	}
}

// ToAny converts n back into plain Go values: string, []any and map[string]any.
func ToAny(n Node) any {
	switch n := n.(type) {
	case Scalar:
		return string(n)
	case Array:
		return []any(n)
	case *Container:
		if n == nil {
			return nil
		}
		m := make(map[string]any, n.Len())
		for k, child := range n.Iter() {
			m[k] = ToAny(child)
		}
		return m
	default:
		return nil
	}
}
