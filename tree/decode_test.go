package tree_test

import (
	"testing"

	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	c, err := tree.DecodeJSON([]byte(`{"z": "1", "a": {"y": "2", "b": ["x", {"k": "v"}]}}`))
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a"}, c.Keys())

	a, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, []string{"y", "b"}, a.(*tree.Container).Keys())

	b, _ := a.(*tree.Container).Get("b")
	require.Equal(t, tree.Array{"x", map[string]any{"k": "v"}}, b)
}

func TestDecodeJSONErrors(t *testing.T) {
	_, err := tree.DecodeJSON([]byte(`{"a": `))
	require.ErrorIs(t, err, tree.ErrInvalidJSON)

	_, err = tree.DecodeJSON([]byte(`["a"]`))
	require.ErrorIs(t, err, tree.ErrShape)

	_, err = tree.DecodeJSON([]byte(`{"a": 1}`))
	require.ErrorIs(t, err, tree.ErrShape)

	c, err := tree.DecodeJSON([]byte(`{"a": 1}`), tree.WithStringify())
	require.NoError(t, err)
	v, _ := c.Get("a")
	require.Equal(t, tree.Scalar("1"), v)
}

func TestDecodeYAML(t *testing.T) {
	doc := `
b:
  d: d
  c: c
a: a
e: [p, q]
`
	c, err := tree.DecodeYAML([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "e"}, c.Keys())

	b, _ := c.Get("b")
	require.Equal(t, []string{"d", "c"}, b.(*tree.Container).Keys())

	e, _ := c.Get("e")
	require.Equal(t, tree.Array{"p", "q"}, e)

	empty, err := tree.DecodeYAML([]byte("  \n"))
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
}
