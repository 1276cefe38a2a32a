package docstore

import (
	badger "github.com/dgraph-io/badger/v4"
)

// KVStore is the subset of *badger.Txn the document store writes through.
type KVStore interface {
	Delete(key []byte) error
	Get(key []byte) (item *badger.Item, err error)
	NewIterator(opts badger.IteratorOptions) *badger.Iterator
	Set(key, value []byte) error
	SetEntry(e *badger.Entry) error
}

var _ KVStore = (*badger.Txn)(nil)

// PrefixStore is a KVStore that prefixes all keys with a given prefix.
type PrefixStore struct {
	base   KVStore
	prefix []byte
}

// NewPrefixStore creates a new PrefixStore.
func NewPrefixStore(base KVStore, prefix []byte) *PrefixStore {
	return &PrefixStore{
		base:   base,
		prefix: prefix,
	}
}

// Prefix returns the prefix of the store.
func (s *PrefixStore) Prefix() []byte {
	return s.prefix
}

// Delete deletes the key from the store.
func (s *PrefixStore) Delete(key []byte) error {
	return s.base.Delete(concat(s.prefix, key))
}

// Get gets the key from the store.
func (s *PrefixStore) Get(key []byte) (*badger.Item, error) {
	return s.base.Get(concat(s.prefix, key))
}

// NewIterator creates an iterator restricted to the store's prefix.
// Keys of the returned items still carry the prefix.
func (s *PrefixStore) NewIterator(opts badger.IteratorOptions) *badger.Iterator {
	opts.Prefix = concat(s.prefix, opts.Prefix)
	return s.base.NewIterator(opts)
}

// Set sets the key in the store.
func (s *PrefixStore) Set(key, value []byte) error {
	return s.base.Set(concat(s.prefix, key), value)
}

// SetEntry sets the entry in the store.
func (s *PrefixStore) SetEntry(e *badger.Entry) error {
	e.Key = concat(s.prefix, e.Key)
	return s.base.SetEntry(e)
}

// concat joins byte slices into a newly allocated slice.
func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}
