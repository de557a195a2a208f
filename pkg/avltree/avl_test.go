package avltree_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mstrachan/wordtree/internal/wlog"
	"github.com/mstrachan/wordtree/pkg/avltree"
)

func openFresh(t *testing.T) *avltree.Index {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.scm")

	idx, err := avltree.Open(avltree.Options{Path: path, Truncate: true, Capacity: 1 << 20})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = idx.Close()
	})

	return idx
}

func collect(t *testing.T, idx *avltree.Index) []string {
	t.Helper()

	var got []string

	require.NoError(t, idx.Traverse(func(key string, count uint64) bool {
		got = append(got, key)

		return true
	}))

	return got
}

func TestInsert_Fresh(t *testing.T) {
	idx := openFresh(t)

	require.NoError(t, idx.Insert("apple"))

	items, err := idx.Items()
	require.NoError(t, err)
	require.EqualValues(t, 1, items)

	unique, err := idx.Unique()
	require.NoError(t, err)
	require.EqualValues(t, 1, unique)

	count, err := idx.LookupCount("apple")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	if diff := cmp.Diff([]string{"apple"}, collect(t, idx)); diff != "" {
		t.Fatalf("traversal mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_Duplicate_IncrementsCountWithoutNewUnique(t *testing.T) {
	idx := openFresh(t)

	require.NoError(t, idx.Insert("apple"))
	require.NoError(t, idx.Insert("apple"))
	require.NoError(t, idx.Insert("apple"))

	items, err := idx.Items()
	require.NoError(t, err)
	require.EqualValues(t, 3, items)

	unique, err := idx.Unique()
	require.NoError(t, err)
	require.EqualValues(t, 1, unique)

	count, err := idx.LookupCount("apple")
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestLookupCount_AbsentKeyReturnsZero(t *testing.T) {
	idx := openFresh(t)

	require.NoError(t, idx.Insert("apple"))

	count, err := idx.LookupCount("banana")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestTraverse_OrdersByByteLexicographicKey(t *testing.T) {
	idx := openFresh(t)

	for _, w := range []string{"mu", "alpha", "zeta", "beta"} {
		require.NoError(t, idx.Insert(w))
	}

	want := []string{"alpha", "beta", "mu", "zeta"}
	if diff := cmp.Diff(want, collect(t, idx)); diff != "" {
		t.Fatalf("traversal order mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_AbsentKeyIsNoopNotError(t *testing.T) {
	recorder := &wlog.Recorder{}

	path := filepath.Join(t.TempDir(), "words.scm")

	idx, err := avltree.Open(avltree.Options{
		Path:     path,
		Truncate: true,
		Capacity: 1 << 20,
		Logger:   recorder,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = idx.Close()
	})

	require.NoError(t, idx.Insert("apple"))
	require.NoError(t, idx.Delete("banana"))

	items, err := idx.Items()
	require.NoError(t, err)
	require.EqualValues(t, 1, items)

	require.NotEmpty(t, recorder.Lines, "deleting an absent key should emit a diagnostic")
}

func TestDelete_DuplicateDecrementsThenRemoves(t *testing.T) {
	idx := openFresh(t)

	require.NoError(t, idx.Insert("apple"))
	require.NoError(t, idx.Insert("apple"))

	require.NoError(t, idx.Delete("apple"))

	count, err := idx.LookupCount("apple")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	unique, err := idx.Unique()
	require.NoError(t, err)
	require.EqualValues(t, 1, unique)

	require.NoError(t, idx.Delete("apple"))

	count, err = idx.LookupCount("apple")
	require.NoError(t, err)
	require.Zero(t, count)

	unique, err = idx.Unique()
	require.NoError(t, err)
	require.Zero(t, unique)

	items, err := idx.Items()
	require.NoError(t, err)
	require.Zero(t, items)
}

func TestInsert_EmptyKeyRejected(t *testing.T) {
	idx := openFresh(t)

	err := idx.Insert("")
	require.ErrorIs(t, err, avltree.ErrEmptyKey)
}

func TestReopen_PersistsAcrossClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.scm")

	idx, err := avltree.Open(avltree.Options{Path: path, Truncate: true, Capacity: 1 << 20})
	require.NoError(t, err)

	for _, w := range []string{"zeta", "alpha", "mu"} {
		require.NoError(t, idx.Insert(w))
	}

	require.NoError(t, idx.Insert("alpha"))
	require.NoError(t, idx.Close())

	reopened, err := avltree.Open(avltree.Options{Path: path, Capacity: 1 << 20})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = reopened.Close()
	})

	items, err := reopened.Items()
	require.NoError(t, err)
	require.EqualValues(t, 4, items)

	unique, err := reopened.Unique()
	require.NoError(t, err)
	require.EqualValues(t, 3, unique)

	count, err := reopened.LookupCount("alpha")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	want := []string{"alpha", "mu", "zeta"}
	if diff := cmp.Diff(want, collect(t, reopened)); diff != "" {
		t.Fatalf("traversal mismatch after reopen (-want +got):\n%s", diff)
	}
}

func TestOperations_OnClosedIndexReturnErrClosed(t *testing.T) {
	idx := openFresh(t)

	require.NoError(t, idx.Close())

	require.ErrorIs(t, idx.Insert("apple"), avltree.ErrClosed)
	require.ErrorIs(t, idx.Delete("apple"), avltree.ErrClosed)

	_, err := idx.LookupCount("apple")
	require.ErrorIs(t, err, avltree.ErrClosed)

	_, err = idx.Items()
	require.ErrorIs(t, err, avltree.ErrClosed)

	_, err = idx.Unique()
	require.ErrorIs(t, err, avltree.ErrClosed)
}
