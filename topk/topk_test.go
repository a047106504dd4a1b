package topk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openCounters(t *testing.T) *Counters {
	t.Helper()
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "idx.bin"), filepath.Join(dir, "rec.bin"), true)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInsertIncrementsExistingName(t *testing.T) {
	c := openCounters(t)
	require.NoError(t, c.Insert("Alice"))
	require.NoError(t, c.Insert("Alice"))
	require.NoError(t, c.Insert("Alice"))
	require.NoError(t, c.Insert("Bob"))

	tops, err := c.MakeTopK(10)
	require.NoError(t, err)

	var alice, bob Top
	for _, top := range tops {
		switch top.Name {
		case "Alice":
			alice = top
		case "Bob":
			bob = top
		}
	}
	require.Equal(t, uint32(3), alice.Count)
	require.Equal(t, uint32(1), bob.Count)
}

func TestMakeTopKBoundsToN(t *testing.T) {
	c := openCounters(t)
	names := []string{"Ann", "Bea", "Cy", "Dot", "Eve"}
	for i, name := range names {
		for j := 0; j <= i; j++ {
			require.NoError(t, c.Insert(name))
		}
	}

	tops, err := c.MakeTopK(2)
	require.NoError(t, err)
	require.Len(t, tops, 2)

	lines := Print(tops, 2)
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Eve")
}

func TestInsertKeepsDistinctNamesSeparate(t *testing.T) {
	c := openCounters(t)
	require.NoError(t, c.Insert("name-one"))
	require.NoError(t, c.Insert("name-two"))

	tops, err := c.MakeTopK(10)
	require.NoError(t, err)
	require.Len(t, tops, 2)
	for _, top := range tops {
		require.Equal(t, uint32(1), top.Count)
	}
}
