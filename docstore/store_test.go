package docstore_test

import (
	"testing"

	"github.com/ehsanranjbar/treeflat/docstore"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/testutil"
	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, opts ...docstore.Option) *docstore.Store {
	db := testutil.OpenDB(t)
	s, err := docstore.Open(db, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestStore(t *testing.T) {
	s := openStore(t)

	var id uuid.UUID
	t.Run("Put", func(t *testing.T) {
		var err error
		id, err = s.Put(testutil.SampleTree())
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)
		require.Equal(t, 4, s.Registry().Len())
	})

	t.Run("Get", func(t *testing.T) {
		out, err := s.Get(id)
		require.NoError(t, err)
		require.Equal(t, flatten.Output{
			"a":       tree.Scalar("a"),
			"b.c":     tree.Scalar("c"),
			"b.d.b.a": tree.Scalar("a"),
			"c":       tree.Array{"awa"},
		}, out)

		_, err = s.Get(uuid.New())
		require.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("GetPath", func(t *testing.T) {
		leaf, err := s.GetPath(id, "b.d.b.a")
		require.NoError(t, err)
		require.Equal(t, tree.Scalar("a"), leaf)

		leaf, err = s.GetPath(id, "c")
		require.NoError(t, err)
		require.Equal(t, tree.Array{"awa"}, leaf)

		_, err = s.GetPath(id, "b.d")
		require.ErrorIs(t, err, docstore.ErrNotFound)

		_, err = s.GetPath(uuid.New(), "a")
		require.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Set", func(t *testing.T) {
		err := s.Set(id, tree.NewContainer().
			With("a", tree.Scalar("z")).
			With("e", tree.Array{}))
		require.NoError(t, err)

		out, err := s.Get(id)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "e"}, out.Keys())
		require.Equal(t, tree.Scalar("z"), out["a"])
		require.Empty(t, out["e"])

		ids, err := s.Has("b.c")
		require.NoError(t, err)
		require.Empty(t, ids)

		n, err := s.Count()
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("Delete", func(t *testing.T) {
		err := s.Delete(id)
		require.NoError(t, err)

		_, err = s.Get(id)
		require.ErrorIs(t, err, docstore.ErrNotFound)

		err = s.Delete(id)
		require.ErrorIs(t, err, docstore.ErrNotFound)

		n, err := s.Count()
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})
}

func TestStoreHas(t *testing.T) {
	s := openStore(t)

	rex, err := s.Put(testutil.Pet("rex", "ann", "good"))
	require.NoError(t, err)
	tom, err := s.Put(tree.NewContainer().With("name", tree.Scalar("tom")))
	require.NoError(t, err)
	kit, err := s.Put(testutil.Pet("kit", "bob"))
	require.NoError(t, err)

	ids, err := s.Has("name")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{rex, tom, kit}, ids)

	ids, err = s.List()
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{rex, tom, kit}, ids)

	ids, err = s.Has("owner.name")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{rex, kit}, ids)

	ids, err = s.Has("unknown")
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, s.Delete(rex))
	ids, err = s.Has("owner.name")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{kit}, ids)
}

func TestStoreQuery(t *testing.T) {
	s := openStore(t)

	rex, err := s.Put(testutil.Pet("rex", "ann"))
	require.NoError(t, err)
	kit, err := s.Put(testutil.Pet("kit", "bob"))
	require.NoError(t, err)
	bo, err := s.Put(testutil.Pet("bo", "ann"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{
			name:  "ByName",
			query: `name == "kit"`,
			want:  []uuid.UUID{kit},
		},
		{
			name:  "ByNestedKey",
			query: `owner.name == "ann"`,
			want:  []uuid.UUID{rex, bo},
		},
		{
			name:  "Conjunction",
			query: `owner.name == "ann" AND name != "rex"`,
			want:  []uuid.UUID{bo},
		},
		{
			name:  "ById",
			query: `_id == "` + rex.String() + `"`,
			want:  []uuid.UUID{rex},
		},
		{
			name:  "NoMatch",
			query: `name == "nobody"`,
			want:  nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ids, err := s.Query(test.query)
			require.NoError(t, err)
			require.Equal(t, test.want, ids)
		})
	}

	t.Run("Page", func(t *testing.T) {
		ids, err := s.Query(`owner.name == "ann"`, docstore.WithOffset(1))
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{bo}, ids)

		ids, err = s.Query(`owner.name == "ann"`, docstore.WithLimit(1))
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{rex}, ids)

		ids, err = s.List(docstore.WithOffset(1), docstore.WithLimit(1))
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{kit}, ids)

		ids, err = s.List(docstore.WithLimit(0))
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("InvalidQuery", func(t *testing.T) {
		_, err := s.Query(`name ==`)
		require.Error(t, err)
	})
}

func TestStoreFlattenErrors(t *testing.T) {
	s := openStore(t, docstore.WithFlattener(flatten.New(flatten.WithCollisionPolicy(flatten.Reject))))

	_, err := s.Put(tree.NewContainer().
		With("a.b", tree.Scalar("1")).
		With("a", tree.NewContainer().With("b", tree.Scalar("2"))))
	require.ErrorIs(t, err, flatten.ErrCollision)

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestStorePrefix(t *testing.T) {
	db := testutil.OpenDB(t)

	s1, err := docstore.Open(db, docstore.WithPrefix([]byte("one")))
	require.NoError(t, err)
	defer s1.Close()
	s2, err := docstore.Open(db, docstore.WithPrefix([]byte("two")))
	require.NoError(t, err)
	defer s2.Close()

	id, err := s1.Put(testutil.Pet("rex", "ann"))
	require.NoError(t, err)

	_, err = s2.Get(id)
	require.ErrorIs(t, err, docstore.ErrNotFound)

	n, err := s2.Count()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	s3, err := docstore.Open(db, docstore.WithPrefix([]byte("one")))
	require.NoError(t, err)
	defer s3.Close()

	out, err := s3.Get(id)
	require.NoError(t, err)
	require.Equal(t, tree.Scalar("ann"), out["owner.name"])
}

func TestStoreLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := openStore(t, docstore.WithLogger(logger))

	_, err := s.Put(testutil.SampleTree())
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "document stored", entry.Message)
	require.Equal(t, 4, entry.Data["keys"])
	require.Equal(t, false, entry.Data["replaced"])
}
