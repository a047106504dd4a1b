package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTitleAuthorKeyOrdering(t *testing.T) {
	a := NewTitleAuthorKey("Alpha", 1)
	b := NewTitleAuthorKey("Beta", 2)
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, a.LessOrEqual(a))
}

func TestTitleAuthorKeyTruncatesLongStrings(t *testing.T) {
	long := strings.Repeat("x", 200)
	k := NewTitleAuthorKey(long, 7)
	want := strings.Repeat("x", titleAuthorKeyWidth-len("...")) + "..."
	require.Len(t, want, titleAuthorKeyWidth)
	require.Equal(t, want, k.String())
}

func TestTitleAuthorKeyExactWidthStringIsTruncated(t *testing.T) {
	exact := strings.Repeat("y", titleAuthorKeyWidth)
	k := NewTitleAuthorKey(exact, 8)
	require.Equal(t, strings.Repeat("y", titleAuthorKeyWidth-len("..."))+"...", k.String())
}

func TestTitleAuthorKeyHasPrefix(t *testing.T) {
	k := NewTitleAuthorKey("Introduction to Algorithms", 3)
	require.True(t, k.HasPrefix("Introduction"))
	require.False(t, k.HasPrefix("Algorithms"))
}

func TestTitleAuthorOpsRoundTrip(t *testing.T) {
	ops := TitleAuthorOps{}
	k := NewTitleAuthorKey("Compilers", 42)
	buf := ops.Encode(k)
	require.Len(t, buf, ops.EncodedSize())
	got := ops.Decode(buf)
	require.Equal(t, k, got)
}

func TestHashKeyOpsRoundTrip(t *testing.T) {
	ops := HashKeyOps{}
	k := HashKey{Hash: 0xdeadbeef, ID: 99}
	buf := ops.Encode(k)
	require.Len(t, buf, ops.EncodedSize())
	got := ops.Decode(buf)
	require.Equal(t, k, got)
}

func TestHashKeyEqualityIgnoresID(t *testing.T) {
	a := HashKey{Hash: 5, ID: 1}
	b := HashKey{Hash: 5, ID: 2}
	require.True(t, a.Equal(b))
}
