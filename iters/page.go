package iters

// PageIterator yields at most limit items after skipping the first offset ones.
type PageIterator[K, V any] struct {
	base   Iterator[K, V]
	offset int
	limit  int
	n      int
}

// Page creates a new page iterator. A negative limit means no limit.
func Page[K, V any](base Iterator[K, V], offset, limit int) *PageIterator[K, V] {
	return &PageIterator[K, V]{base: base, offset: offset, limit: limit}
}

// Close implements the Iterator interface.
func (it *PageIterator[K, V]) Close() {
	it.base.Close()
}

// Rewind implements the Iterator interface.
func (it *PageIterator[K, V]) Rewind() {
	it.n = 0
	it.base.Rewind()
	for skipped := 0; skipped < it.offset && it.base.Valid(); skipped++ {
		it.base.Next()
	}
}

// Next implements the Iterator interface.
func (it *PageIterator[K, V]) Next() {
	if it.Valid() {
		it.n++
		it.base.Next()
	}
}

// Valid implements the Iterator interface.
func (it *PageIterator[K, V]) Valid() bool {
	if it.limit >= 0 && it.n >= it.limit {
		return false
	}
	return it.base.Valid()
}

// Key implements the Iterator interface.
func (it *PageIterator[K, V]) Key() K {
	return it.base.Key()
}

// Value implements the Iterator interface.
func (it *PageIterator[K, V]) Value() (value V, err error) {
	return it.base.Value()
}
