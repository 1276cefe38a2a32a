package iters

// Slice returns an iterator over s keyed by index.
func Slice[V any](s []V) Iterator[int, V] {
	return &sliceIterator[V]{s: s}
}

type sliceIterator[V any] struct {
	s []V
	i int
}

// Close implements the Iterator interface.
func (it *sliceIterator[V]) Close() {}

// Next implements the Iterator interface.
func (it *sliceIterator[V]) Next() {
	it.i++
}

// Rewind implements the Iterator interface.
func (it *sliceIterator[V]) Rewind() {
	it.i = 0
}

// Valid implements the Iterator interface.
func (it *sliceIterator[V]) Valid() bool {
	return it.i < len(it.s)
}

// Key implements the Iterator interface.
func (it *sliceIterator[V]) Key() int {
	return it.i
}

// Value implements the Iterator interface.
func (it *sliceIterator[V]) Value() (value V, err error) {
	return it.s[it.i], nil
}
