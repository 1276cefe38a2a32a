package iters

// FilterIterator is an iterator that only yields the items satisfying a predicate.
// An item whose value fails to load is yielded so that the error reaches the caller.
type FilterIterator[K, V any] struct {
	base Iterator[K, V]
	f    func(K, V) bool
}

// Filter creates a new filter iterator.
func Filter[K, V any](base Iterator[K, V], f func(K, V) bool) *FilterIterator[K, V] {
	return &FilterIterator[K, V]{base: base, f: f}
}

// Close implements the Iterator interface.
func (it *FilterIterator[K, V]) Close() {
	it.base.Close()
}

// Next implements the Iterator interface.
func (it *FilterIterator[K, V]) Next() {
	it.base.Next()
	it.findNext()
}

func (it *FilterIterator[K, V]) findNext() {
	for ; it.base.Valid(); it.base.Next() {
		v, err := it.base.Value()
		if err != nil || it.f(it.base.Key(), v) {
			return
		}
	}
}

// Rewind implements the Iterator interface.
func (it *FilterIterator[K, V]) Rewind() {
	it.base.Rewind()
	it.findNext()
}

// Valid implements the Iterator interface.
func (it *FilterIterator[K, V]) Valid() bool {
	return it.base.Valid()
}

// Key implements the Iterator interface.
func (it *FilterIterator[K, V]) Key() K {
	return it.base.Key()
}

// Value implements the Iterator interface.
func (it *FilterIterator[K, V]) Value() (value V, err error) {
	return it.base.Value()
}
