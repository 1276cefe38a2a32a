package docstore

import (
	"errors"
	"fmt"
	"math"
	"sync"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/araddon/qlbridge/expr"
	qlvm "github.com/araddon/qlbridge/vm"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/treeflat/codec/be"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/internal/qlutil"
	"github.com/ehsanranjbar/treeflat/iters"
	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a document or one of its paths does not exist.
var ErrNotFound = errors.New("not found")

const (
	registryTag byte = 'r'
	sequenceTag byte = 's'
	entryTag    byte = 'd'
	idTag       byte = 'i'
	numTag      byte = 'n'
	postingTag  byte = 'p'

	numLen = 4
)

// Store keeps flattened documents in badger, one entry per flattened key.
//
// Below the configured prefix the keys are laid out as follows:
//
//	r                 path registry state
//	s                 document number sequence
//	d | uuid | path   msgpack encoded leaf
//	i | uuid          document number
//	n | number        document uuid
//	p | path          roaring bitmap of the numbers of documents holding the path
type Store struct {
	db        *badger.DB
	prefix    []byte
	registry  *PathRegistry
	seq       *badger.Sequence
	flattener *flatten.Flattener
	logger    logrus.FieldLogger
	wmu       sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix under which the store keeps all of its data.
func WithPrefix(prefix []byte) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithFlattener sets the flattener documents are flattened with.
func WithFlattener(f *flatten.Flattener) Option {
	return func(s *Store) {
		s.flattener = f
	}
}

// WithLogger sets the logger of the store.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open creates a Store on top of db.
func Open(db *badger.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:        db,
		flattener: flatten.New(),
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.registry, err = NewPathRegistry(db, WithRegistryKey(concat(s.prefix, key(registryTag))))
	if err != nil {
		return nil, err
	}

	s.seq, err = db.GetSequence(concat(s.prefix, key(sequenceTag)), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to get document sequence: %w", err)
	}

	s.logger.WithField("paths", s.registry.Len()).Debug("document store opened")
	return s, nil
}

// Close releases the document number sequence. It does not close the database.
func (s *Store) Close() error {
	return s.seq.Release()
}

// Registry returns the path registry of the store.
func (s *Store) Registry() *PathRegistry {
	return s.registry
}

// key builds a key relative to the store prefix.
func key(tag byte, parts ...[]byte) []byte {
	return concat(append([][]byte{{tag}}, parts...)...)
}

func (s *Store) kv(txn *badger.Txn) *PrefixStore {
	return NewPrefixStore(txn, s.prefix)
}

// Put flattens root and stores it under a new random id.
func (s *Store) Put(root *tree.Container) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.Set(id, root); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Set flattens root and stores it under id, replacing any previous document.
func (s *Store) Set(id uuid.UUID, root *tree.Container) error {
	out, err := s.flattener.Flatten(root)
	if err != nil {
		return fmt.Errorf("failed to flatten document: %w", err)
	}

	keys := out.Keys()
	pids := make([][]byte, len(keys))
	for i, k := range keys {
		pids[i], err = s.registry.Intern(k)
		if err != nil {
			return err
		}
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		num, found, err := s.docNum(kv, id)
		if err != nil {
			return err
		}
		if found {
			if err := s.deleteEntries(kv, id, num); err != nil {
				return err
			}
		} else {
			num, err = s.allocNum(kv, id)
			if err != nil {
				return err
			}
		}

		for i, k := range keys {
			bz, err := encodeLeaf(out[k])
			if err != nil {
				return fmt.Errorf("failed to encode %q: %w", k, err)
			}
			if err := kv.Set(key(entryTag, id[:], pids[i]), bz); err != nil {
				return err
			}
			if err := s.updatePosting(kv, pids[i], func(bm *roaring.Bitmap) { bm.Add(num) }); err != nil {
				return err
			}
		}

		s.logger.WithFields(logrus.Fields{
			"id":       id,
			"keys":     len(keys),
			"replaced": found,
		}).Debug("document stored")
		return nil
	})
}

// Get returns the flattened document stored under id.
func (s *Store) Get(id uuid.UUID) (flatten.Output, error) {
	var out flatten.Output
	err := s.db.View(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		_, found, err := s.docNum(kv, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}

		out, err = s.load(kv, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetPath returns a single leaf of the document stored under id.
func (s *Store) GetPath(id uuid.UUID, path string) (tree.Leaf, error) {
	pid, ok := s.registry.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("path %q: %w", path, ErrNotFound)
	}

	var leaf tree.Leaf
	err := s.db.View(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		item, err := kv.Get(key(entryTag, id[:], pid))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("path %q of document %s: %w", path, id, ErrNotFound)
			}
			return err
		}

		return item.Value(func(val []byte) error {
			leaf, err = decodeLeaf(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return leaf, nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(id uuid.UUID) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		num, found, err := s.docNum(kv, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}

		if err := s.deleteEntries(kv, id, num); err != nil {
			return err
		}
		if err := kv.Delete(key(idTag, id[:])); err != nil {
			return err
		}
		return kv.Delete(key(numTag, be.EncodeUint(num, numLen)))
	})
}

// Has returns the ids of the documents that hold the flattened key, in insertion order.
func (s *Store) Has(path string) ([]uuid.UUID, error) {
	pid, ok := s.registry.Lookup(path)
	if !ok {
		return nil, nil
	}

	var ids []uuid.UUID
	err := s.db.View(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		bm, err := s.posting(kv, pid)
		if err != nil {
			return err
		}

		it := bm.Iterator()
		for it.HasNext() {
			id, err := s.docId(kv, it.Next())
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindOption narrows the result of Query and List.
type FindOption func(*page)

type page struct {
	offset int
	limit  int
}

// WithOffset skips the first n matching documents.
func WithOffset(n int) FindOption {
	return func(p *page) {
		p.offset = n
	}
}

// WithLimit returns at most n documents. A negative n means no limit.
func WithLimit(n int) FindOption {
	return func(p *page) {
		p.limit = n
	}
}

// Query returns the ids of the documents matching a qlbridge expression, in insertion order.
// Identities name flattened keys; `_id` is the document id.
func (s *Store) Query(q string, opts ...FindOption) ([]uuid.UUID, error) {
	node, err := expr.ParseExpression(q)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	return s.find(func(id uuid.UUID, out flatten.Output) bool {
		ok, _ := qlvm.MatchesExpr(qlutil.NewContextWrapper(id, out), node)
		return ok
	}, opts)
}

// List returns the ids of the stored documents in insertion order.
func (s *Store) List(opts ...FindOption) ([]uuid.UUID, error) {
	return s.find(nil, opts)
}

func (s *Store) find(match func(uuid.UUID, flatten.Output) bool, opts []FindOption) ([]uuid.UUID, error) {
	p := page{limit: -1}
	for _, opt := range opts {
		opt(&p)
	}

	var ids []uuid.UUID
	err := s.db.View(func(txn *badger.Txn) error {
		var it iters.Iterator[uuid.UUID, flatten.Output] = s.newIterator(s.kv(txn), match == nil)
		if match != nil {
			it = iters.Filter(it, match)
		}
		it = iters.Page(it, p.offset, p.limit)
		defer it.Close()

		var err error
		ids, err = iters.CollectKeys(it)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		kv := s.kv(txn)
		it := kv.NewIterator(badger.IteratorOptions{Prefix: key(numTag)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *Store) load(kv KVStore, id uuid.UUID) (flatten.Output, error) {
	prefix := key(entryTag, id[:])
	it := kv.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
	defer it.Close()

	out := make(flatten.Output)
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		pid := item.Key()[len(s.prefix)+len(prefix):]
		path, ok := s.registry.Path(pid)
		if !ok {
			return nil, fmt.Errorf("unknown path id %x in document %s", pid, id)
		}

		err := item.Value(func(val []byte) error {
			leaf, err := decodeLeaf(val)
			if err != nil {
				return fmt.Errorf("failed to decode %q: %w", path, err)
			}
			out[path] = leaf
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) docNum(kv KVStore, id uuid.UUID) (num uint32, found bool, err error) {
	item, err := kv.Get(key(idTag, id[:]))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	err = item.Value(func(val []byte) error {
		num = be.DecodeUint[uint32](val)
		return nil
	})
	return num, err == nil, err
}

func (s *Store) docId(kv KVStore, num uint32) (uuid.UUID, error) {
	item, err := kv.Get(key(numTag, be.EncodeUint(num, numLen)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get id of document %d: %w", num, err)
	}

	var id uuid.UUID
	err = item.Value(func(val []byte) error {
		id, err = uuid.FromBytes(val)
		return err
	})
	return id, err
}

func (s *Store) allocNum(kv KVStore, id uuid.UUID) (uint32, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate document number: %w", err)
	}
	// badger sequences start from 0, so we increment it by 1.
	n++
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("document numbers exhausted")
	}

	num := uint32(n)
	if err := kv.Set(key(idTag, id[:]), be.EncodeUint(num, numLen)); err != nil {
		return 0, err
	}
	if err := kv.Set(key(numTag, be.EncodeUint(num, numLen)), id[:]); err != nil {
		return 0, err
	}
	return num, nil
}

func (s *Store) deleteEntries(kv KVStore, id uuid.UUID, num uint32) error {
	prefix := key(entryTag, id[:])

	var keys [][]byte
	it := kv.NewIterator(badger.IteratorOptions{Prefix: prefix})
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		pid := k[len(s.prefix)+len(prefix):]
		if err := s.updatePosting(kv, pid, func(bm *roaring.Bitmap) { bm.Remove(num) }); err != nil {
			return err
		}
		if err := kv.Delete(k[len(s.prefix):]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) posting(kv KVStore, pid []byte) (*roaring.Bitmap, error) {
	bm := roaring.New()
	item, err := kv.Get(key(postingTag, pid))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return bm, nil
		}
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return bm.UnmarshalBinary(val)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode posting list: %w", err)
	}
	return bm, nil
}

func (s *Store) updatePosting(kv KVStore, pid []byte, f func(*roaring.Bitmap)) error {
	bm, err := s.posting(kv, pid)
	if err != nil {
		return err
	}

	f(bm)
	key := key(postingTag, pid)
	if bm.IsEmpty() {
		return kv.Delete(key)
	}

	bz, err := bm.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to encode posting list: %w", err)
	}
	return kv.Set(key, bz)
}
