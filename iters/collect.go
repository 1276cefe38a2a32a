package iters

// Collect collects all the values from the iterator and returns them as a slice.
func Collect[K, V any](it Iterator[K, V]) ([]V, error) {
	var items []V
	for it.Rewind(); it.Valid(); it.Next() {
		v, err := it.Value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// CollectKeys collects the keys of the items the iterator yields.
// Values are loaded too so that their errors are reported.
func CollectKeys[K, V any](it Iterator[K, V]) ([]K, error) {
	var keys []K
	for it.Rewind(); it.Valid(); it.Next() {
		if _, err := it.Value(); err != nil {
			return nil, err
		}
		keys = append(keys, it.Key())
	}
	return keys, nil
}
