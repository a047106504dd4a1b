package bplustree

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ndb/keys"
)

func hk(v uint64, id int64) keys.HashKey { return keys.HashKey{Hash: v, ID: id} }

func openHashTree(t *testing.T) *Tree[keys.HashKey] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.bin")
	tr, err := Open[keys.HashKey](path, true, keys.HashKeyOps{}, DefaultOrder)
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestInsertAndFind(t *testing.T) {
	tr := openHashTree(t)
	for i := uint64(0); i < 50; i++ {
		require.NoError(t, tr.Insert(hk(i, int64(i))))
	}
	for i := uint64(0); i < 50; i++ {
		got, ok, err := tr.Find(hk(i, 0))
		require.NoError(t, err)
		require.True(t, ok, "key %d missing", i)
		require.Equal(t, int64(i), got.ID)
	}
	_, ok, err := tr.Find(hk(999, 0))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIterationIsOrdered(t *testing.T) {
	tr := openHashTree(t)
	vals := rand.New(rand.NewSource(1)).Perm(200)
	for _, v := range vals {
		require.NoError(t, tr.Insert(hk(uint64(v), int64(v))))
	}

	it, err := tr.Begin()
	require.NoError(t, err)
	var prev uint64
	count := 0
	for !it.Equal(tr.End()) {
		k := it.Key()
		if count > 0 {
			require.True(t, prev <= k.Hash, "out of order: %d then %d", prev, k.Hash)
		}
		prev = k.Hash
		count++
		require.NoError(t, it.Next())
	}
	require.Equal(t, 200, count)
}

func TestFindGEQScansMatchingRun(t *testing.T) {
	tr := openHashTree(t)
	// three entries sharing a hash (a token posting list), plus
	// neighbours on either side.
	require.NoError(t, tr.Insert(hk(10, 100)))
	require.NoError(t, tr.Insert(hk(10, 101)))
	require.NoError(t, tr.Insert(hk(10, 102)))
	require.NoError(t, tr.Insert(hk(9, 1)))
	require.NoError(t, tr.Insert(hk(11, 2)))

	it, err := tr.FindGEQ(hk(10, -1))
	require.NoError(t, err)

	var ids []int64
	for !it.Equal(tr.End()) && it.Key().Hash == 10 {
		ids = append(ids, it.Key().ID)
		require.NoError(t, it.Next())
	}
	require.ElementsMatch(t, []int64{100, 101, 102}, ids)
}

func TestReopenPreservesTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	tr, err := Open[keys.HashKey](path, true, keys.HashKeyOps{}, DefaultOrder)
	require.NoError(t, err)
	for i := uint64(0); i < 300; i++ {
		require.NoError(t, tr.Insert(hk(i, int64(i))))
	}
	require.NoError(t, tr.Close())

	reopened, err := Open[keys.HashKey](path, false, keys.HashKeyOps{}, DefaultOrder)
	require.NoError(t, err)
	defer reopened.Close()

	for i := uint64(0); i < 300; i += 7 {
		got, ok, err := reopened.Find(hk(i, 0))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int64(i), got.ID)
	}
}

func TestOverflowTriggersSplits(t *testing.T) {
	tr := openHashTree(t)
	// insert comfortably past a single node's order capacity to force
	// several leaf splits and a root split (no internal node fills up
	// at this key count).
	n := (DefaultOrder + 1) * 3
	for i := 0; i < n; i++ {
		require.NoError(t, tr.Insert(hk(uint64(i), int64(i))))
	}
	count := 0
	it, err := tr.Begin()
	require.NoError(t, err)
	for !it.Equal(tr.End()) {
		count++
		require.NoError(t, it.Next())
	}
	require.Equal(t, n, count)
}

// TestSmallOrderStressScenario opens a tree with a deliberately tiny
// fan-out and inserts keys 1..100: iteration must still yield every
// key in order, and the forced splits must push the tree to a height
// a fan-out of 64 would never need for the same key count.
func TestSmallOrderStressScenario(t *testing.T) {
	const order = 3
	path := filepath.Join(t.TempDir(), "small-order.bin")
	tr, err := Open[keys.HashKey](path, true, keys.HashKeyOps{}, order)
	require.NoError(t, err)
	defer tr.Close()

	for i := uint64(1); i <= 100; i++ {
		require.NoError(t, tr.Insert(hk(i, int64(i))))
	}

	it, err := tr.Begin()
	require.NoError(t, err)
	var prev uint64
	count := 0
	for !it.Equal(tr.End()) {
		k := it.Key()
		if count > 0 {
			require.True(t, prev <= k.Hash, "out of order: %d then %d", prev, k.Hash)
		}
		prev = k.Hash
		count++
		require.NoError(t, it.Next())
	}
	require.Equal(t, 100, count)

	height, err := tr.Height()
	require.NoError(t, err)
	require.GreaterOrEqual(t, height, 4)
}

func TestTitleAuthorKeyTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.bin")
	tr, err := Open[keys.TitleAuthorKey](path, true, keys.TitleAuthorOps{}, DefaultOrder)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Insert(keys.NewTitleAuthorKey("A Tale of Two Cities", 1)))
	require.NoError(t, tr.Insert(keys.NewTitleAuthorKey("Moby Dick", 2)))
	require.NoError(t, tr.Insert(keys.NewTitleAuthorKey("War and Peace", 3)))

	got, ok, err := tr.Find(keys.NewTitleAuthorKey("Moby Dick", 0))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), got.ID)
}
