package docstore

import (
	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/iters"
	"github.com/google/uuid"
)

// documentIterator walks stored documents in insertion order.
// Documents are loaded on the first call to Value, never if keysOnly is set.
type documentIterator struct {
	s        *Store
	kv       KVStore
	base     *badger.Iterator
	keysOnly bool
	id       uuid.UUID
	out      flatten.Output
	err      error
}

var _ iters.Iterator[uuid.UUID, flatten.Output] = (*documentIterator)(nil)

func (s *Store) newIterator(kv KVStore, keysOnly bool) *documentIterator {
	return &documentIterator{
		s:        s,
		kv:       kv,
		base:     kv.NewIterator(badger.IteratorOptions{Prefix: key(numTag), PrefetchValues: true, PrefetchSize: 16}),
		keysOnly: keysOnly,
	}
}

// Close implements the Iterator interface.
func (it *documentIterator) Close() {
	it.base.Close()
}

// Rewind implements the Iterator interface.
func (it *documentIterator) Rewind() {
	it.base.Rewind()
	it.read()
}

// Next implements the Iterator interface.
func (it *documentIterator) Next() {
	it.base.Next()
	it.read()
}

func (it *documentIterator) read() {
	it.id, it.out, it.err = uuid.Nil, nil, nil
	if !it.base.Valid() {
		return
	}

	it.err = it.base.Item().Value(func(val []byte) error {
		var err error
		it.id, err = uuid.FromBytes(val)
		return err
	})
}

// Valid implements the Iterator interface.
func (it *documentIterator) Valid() bool {
	return it.base.Valid()
}

// Key implements the Iterator interface.
func (it *documentIterator) Key() uuid.UUID {
	return it.id
}

// Value implements the Iterator interface.
func (it *documentIterator) Value() (flatten.Output, error) {
	if it.err != nil || it.out != nil || it.keysOnly {
		return it.out, it.err
	}

	it.out, it.err = it.s.load(it.kv, it.id)
	return it.out, it.err
}
