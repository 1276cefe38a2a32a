package iters_test

import (
	"errors"
	"testing"

	"github.com/ehsanranjbar/treeflat/iters"
	"github.com/stretchr/testify/require"
)

func isEven(_ int, v int) bool { return v%2 == 0 }

func TestFilter(t *testing.T) {
	it := iters.Filter(iters.Slice([]int{1, 2, 3, 4, 6, 7}), isEven)
	defer it.Close()

	values, err := iters.Collect[int, int](it)
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6}, values)

	keys, err := iters.CollectKeys[int, int](it)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 4}, keys)

	values, err = iters.Collect[int, int](iters.Filter(iters.Slice([]int{1, 3}), isEven))
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestPage(t *testing.T) {
	letters := []string{"a", "b", "c", "d"}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{name: "All", offset: 0, limit: -1, want: letters},
		{name: "Offset", offset: 2, limit: -1, want: []string{"c", "d"}},
		{name: "Limit", offset: 0, limit: 2, want: []string{"a", "b"}},
		{name: "Both", offset: 1, limit: 2, want: []string{"b", "c"}},
		{name: "Past end", offset: 5, limit: 2, want: nil},
		{name: "Zero limit", offset: 0, limit: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := iters.Collect[int, string](iters.Page(iters.Slice(letters), tt.offset, tt.limit))
			require.NoError(t, err)
			require.Equal(t, tt.want, values)
		})
	}

	t.Run("Keys", func(t *testing.T) {
		it := iters.Page(iters.Slice(letters), 1, 1)

		it.Rewind()
		require.True(t, it.Valid())
		require.Equal(t, 1, it.Key())
		it.Next()
		require.False(t, it.Valid())
		it.Next()
		require.False(t, it.Valid())

		it.Rewind()
		require.True(t, it.Valid())
	})

	t.Run("Filtered", func(t *testing.T) {
		s := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		it := iters.Page(iters.Filter(iters.Slice(s), isEven), 1, 2)

		values, err := iters.Collect[int, int](it)
		require.NoError(t, err)
		require.Equal(t, []int{2, 4}, values)
	})
}

type failing struct {
	iters.Iterator[int, int]
}

func (failing) Value() (int, error) { return 0, errors.New("boom") }

func TestCollectError(t *testing.T) {
	_, err := iters.Collect[int, int](failing{iters.Slice([]int{1})})
	require.EqualError(t, err, "boom")

	_, err = iters.CollectKeys[int, int](iters.Filter[int, int](failing{iters.Slice([]int{1})}, isEven))
	require.EqualError(t, err, "boom")
}
