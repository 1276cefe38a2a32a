package tree

import (
	"fmt"
	"strings"
)

// Resolve finds the leaf that a flattened key was produced from.
//
// The key is split on "." and followed from root. Because a container key may
// itself contain ".", segments are joined greedily on a miss: "a.b.c" also
// matches the path ["a.b", "c"]. The shortest split is tried first. The
// returned path holds the actual container keys that were followed.
func Resolve(root *Container, key string) (Node, []string, error) {
	if root == nil {
		return nil, nil, &ShapeError{}
	}

	path, n, ok := resolve(root, strings.Split(key, "."))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrPathNotFound, key)
	}
	return n, path, nil
}

func resolve(c *Container, parts []string) ([]string, Node, bool) {
	for i := 1; i <= len(parts); i++ {
		seg := strings.Join(parts[:i], ".")
		child, ok := c.Get(seg)
		if !ok {
			continue
		}

		rest := parts[i:]
		if len(rest) == 0 {
			if child.Kind().IsLeaf() {
				return []string{seg}, child, true
			}
			continue
		}

		sub, ok := child.(*Container)
		if !ok {
			continue
		}
		if path, n, ok := resolve(sub, rest); ok {
			return append([]string{seg}, path...), n, true
		}
	}

	return nil, nil, false
}
