package docstore_test

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/treeflat/docstore"
	"github.com/ehsanranjbar/treeflat/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrefixStore(t *testing.T) {
	txn := testutil.PrepareTxn(t, true)
	store := docstore.NewPrefixStore(txn, []byte("prefix"))

	var (
		key   = []byte("foo")
		value = []byte("bar")
	)

	t.Run("Set", func(t *testing.T) {
		err := store.Set(key, value)
		require.NoError(t, err)
	})

	t.Run("SetEntry", func(t *testing.T) {
		err := store.SetEntry(badger.NewEntry([]byte("baz"), value))
		require.NoError(t, err)
	})

	t.Run("Get", func(t *testing.T) {
		item, err := store.Get(key)
		require.NoError(t, err)
		require.NotNil(t, item)

		item, err = txn.Get([]byte("prefixfoo"))
		require.NoError(t, err)
		require.NotNil(t, item)
	})

	t.Run("NewIterator", func(t *testing.T) {
		it := store.NewIterator(badger.IteratorOptions{Prefix: []byte("ba")})
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		require.Equal(t, [][]byte{[]byte("prefixbaz")}, keys)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(key)
		require.NoError(t, err)

		_, err = store.Get(key)
		require.ErrorIs(t, err, badger.ErrKeyNotFound)
	})

	t.Run("PrefixIsNotAliased", func(t *testing.T) {
		prefix := make([]byte, 1, 16)
		prefix[0] = 'x'
		s := docstore.NewPrefixStore(txn, prefix)
		require.NoError(t, s.Set([]byte("a"), value))
		require.NoError(t, s.Set([]byte("b"), value))

		_, err := txn.Get([]byte("xa"))
		require.NoError(t, err)
		require.Equal(t, []byte("x"), s.Prefix())
	})
}
