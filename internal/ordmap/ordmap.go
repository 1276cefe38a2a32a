package ordmap

import (
	"errors"
	"iter"
)

var (
	// ErrKeyExists is returned when a key already exists in the map.
	ErrKeyExists = errors.New("key already exists")
)

// Map is a map that maintains the insertion order of the keys.
type Map[K comparable, V any] struct {
	index map[K]int
	order []pair[K, V]
}

type pair[K, V any] struct {
	key   K
	value V
}

// New creates a new Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		index: make(map[K]int),
	}
}

// Add appends a key-value pair to the map. it returns error if the key already exists.
func (m *Map[K, V]) Add(key K, value V) error {
	if _, ok := m.index[key]; ok {
		return ErrKeyExists
	}

	m.index[key] = len(m.order)
	m.order = append(m.order, pair[K, V]{key: key, value: value})
	return nil
}

// Set replaces the value of an existing key in place or appends a new pair.
// It reports whether the key was already present.
func (m *Map[K, V]) Set(key K, value V) bool {
	if i, ok := m.index[key]; ok {
		m.order[i].value = value
		return true
	}

	m.index[key] = len(m.order)
	m.order = append(m.order, pair[K, V]{key: key, value: value})
	return false
}

// Get returns the value of a key.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	i, ok := m.index[key]
	if !ok {
		return value, false
	}
	return m.order[i].value, true
}

// Iter returns an iterator over all key-value pairs in insertion order.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range m.order {
			if !yield(p.key, p.value) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.order))
	for i, p := range m.order {
		keys[i] = p.key
	}
	return keys
}

// Len returns the number of key-value pairs in the map.
func (m *Map[K, V]) Len() int {
	return len(m.order)
}

// Delete deletes a key from the map and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}

	delete(m.index, key)
	m.order = append(m.order[:i], m.order[i+1:]...)
	for j := i; j < len(m.order); j++ {
		m.index[m.order[j].key] = j
	}
	return true
}
