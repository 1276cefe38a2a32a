package testutil

import "github.com/ehsanranjbar/treeflat/tree"

// SampleJSON is a small document mixing scalars, nested containers and an array.
const SampleJSON = `{"a": "a", "b": {"c": "c", "d": {"b": {"a": "a"}}}, "c": ["awa"]}`

// SampleTree returns the tree SampleJSON decodes to.
func SampleTree() *tree.Container {
	return tree.NewContainer().
		With("a", tree.Scalar("a")).
		With("b", tree.NewContainer().
			With("c", tree.Scalar("c")).
			With("d", tree.NewContainer().
				With("b", tree.NewContainer().
					With("a", tree.Scalar("a"))))).
		With("c", tree.Array{"awa"})
}

// Pet returns a small document describing a pet.
func Pet(name, owner string, tags ...string) *tree.Container {
	arr := make(tree.Array, len(tags))
	for i, t := range tags {
		arr[i] = t
	}

	return tree.NewContainer().
		With("name", tree.Scalar(name)).
		With("owner", tree.NewContainer().With("name", tree.Scalar(owner))).
		With("tags", arr)
}
