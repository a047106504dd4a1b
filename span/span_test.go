package span

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanRoundTrip(t *testing.T) {
	s := &Span{Pos: 12345, Len: 678}
	buf := s.Encode()
	require.Len(t, buf, s.Size())

	var got Span
	require.NoError(t, got.Decode(buf))
	require.Equal(t, *s, got)
}
