package invindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ndb/span"
)

func openIndex(t *testing.T) *Index {
	t.Helper()
	dir := t.TempDir()
	ix, err := Open(filepath.Join(dir, "idx.bin"), filepath.Join(dir, "rec.bin"), true)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestBuildAndFindSingleToken(t *testing.T) {
	ix := openIndex(t)
	require.NoError(t, ix.Build("distributed systems theory", 0, 40))
	require.NoError(t, ix.Build("systems programming", 40, 20))

	hits, err := ix.FindSingle("systems")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Contains(t, hits, hit{pos: 0, length: 40})
	require.Contains(t, hits, hit{pos: 40, length: 20})
}

func TestFindIntersectsMultipleTokens(t *testing.T) {
	ix := openIndex(t)
	require.NoError(t, ix.Build("distributed systems theory", 0, 40))
	require.NoError(t, ix.Build("systems programming practice", 40, 30))
	require.NoError(t, ix.Build("theory of computation", 70, 22))

	spans, err := ix.Find([]string{"programming", "computation"})
	require.NoError(t, err)
	require.Empty(t, spans, "no single record contains both tokens")

	spans, err = ix.Find([]string{"systems", "theory"})
	require.NoError(t, err)
	require.Len(t, spans, 1, "only the first record contains both tokens")
	require.Equal(t, span.Span{Pos: 0, Len: 40}, spans[0])

	spans, err = ix.Find([]string{"systems"})
	require.NoError(t, err)
	require.Len(t, spans, 2)
}

func TestFindSingleUnknownTokenIsEmpty(t *testing.T) {
	ix := openIndex(t)
	require.NoError(t, ix.Build("a title", 0, 7))

	hits, err := ix.FindSingle("nonexistent")
	require.NoError(t, err)
	require.Empty(t, hits)
}
