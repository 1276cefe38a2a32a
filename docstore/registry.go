package docstore

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/treeflat/codec/be"
	msgpack "github.com/vmihailenco/msgpack/v5"
)

// ErrRegistryFull is returned when every id of the configured width is taken.
var ErrRegistryFull = errors.New("path registry is full")

// PathRegistry associates flattened keys with unique fixed-width ids so that
// long keys are stored only once.
type PathRegistry struct {
	db     *badger.DB
	key    []byte
	idLen  int
	nextId []byte
	ids    map[string][]byte
	paths  map[string]string
	mu     sync.RWMutex
}

// NewPathRegistry creates a new PathRegistry and loads its persisted state.
func NewPathRegistry(db *badger.DB, opts ...func(*PathRegistry)) (*PathRegistry, error) {
	reg := &PathRegistry{
		db:    db,
		key:   []byte{0},
		idLen: 4,
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.nextId = be.IncrementLex(bytes.Repeat([]byte{0}, reg.idLen))

	err := reg.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load path registry: %w", err)
	}
	return reg, nil
}

// WithRegistryKey sets the key the registry state is stored under.
func WithRegistryKey(key []byte) func(*PathRegistry) {
	return func(reg *PathRegistry) {
		reg.key = key
	}
}

// WithRegistryIdLen sets the width in bytes of the ids.
func WithRegistryIdLen(idLen int) func(*PathRegistry) {
	return func(reg *PathRegistry) {
		reg.idLen = idLen
	}
}

func (reg *PathRegistry) load() error {
	reg.ids = make(map[string][]byte)
	reg.paths = make(map[string]string)
	err := reg.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reg.key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get registry state: %w", err)
		}

		return item.Value(func(val []byte) error {
			dec := msgpack.GetDecoder()
			dec.Reset(bytes.NewReader(val))
			defer msgpack.PutDecoder(dec)

			err := dec.DecodeMulti(&reg.ids, &reg.nextId)
			if err != nil {
				return fmt.Errorf("failed to decode registry state: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	for path, id := range reg.ids {
		reg.paths[string(id)] = path
	}
	return nil
}

// Lookup returns the id of path if it was interned before.
func (reg *PathRegistry) Lookup(path string) ([]byte, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	id, ok := reg.ids[path]
	return id, ok
}

// Path returns the path an id was assigned to.
func (reg *PathRegistry) Path(id []byte) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	path, ok := reg.paths[string(id)]
	return path, ok
}

// Len returns the number of interned paths.
func (reg *PathRegistry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.ids)
}

// Paths returns the interned paths in ascending order.
func (reg *PathRegistry) Paths() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return slices.Sorted(maps.Keys(reg.ids))
}

// Intern returns the id of path, assigning and persisting a new one if needed.
func (reg *PathRegistry) Intern(path string) ([]byte, error) {
	if id, ok := reg.Lookup(path); ok {
		return id, nil
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if id, ok := reg.ids[path]; ok {
		return id, nil
	}

	if len(reg.nextId) > reg.idLen {
		return nil, ErrRegistryFull
	}

	id := bytes.Clone(reg.nextId)
	next := be.IncrementLex(bytes.Clone(reg.nextId))

	reg.ids[path] = id
	err := reg.persist(next)
	if err != nil {
		delete(reg.ids, path)
		return nil, fmt.Errorf("failed to update path registry: %w", err)
	}

	reg.paths[string(id)] = path
	reg.nextId = next
	return id, nil
}

func (reg *PathRegistry) persist(next []byte) error {
	return reg.db.Update(func(txn *badger.Txn) error {
		enc := msgpack.GetEncoder()
		var buf bytes.Buffer
		enc.Reset(&buf)
		defer msgpack.PutEncoder(enc)

		err := enc.EncodeMulti(reg.ids, next)
		if err != nil {
			return fmt.Errorf("failed to encode registry state: %w", err)
		}

		return txn.Set(reg.key, buf.Bytes())
	})
}
