package xmlcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ndb/span"
)

const sampleXML = `<dblp><article><author>Ada Lovelace</author><title>Notes</title></article></dblp>`

func openResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))
	r, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r, path
}

func TestResolveReadsRawBytes(t *testing.T) {
	r, _ := openResolver(t)
	s := span.Span{Pos: 6, Len: uint32(len(sampleXML) - 6 - len("</dblp>"))}

	raw, err := r.Resolve(s)
	require.NoError(t, err)
	require.Equal(t, "<article><author>Ada Lovelace</author><title>Notes</title></article>", string(raw))
}

func TestResolveCachesRepeatedLookups(t *testing.T) {
	r, _ := openResolver(t)
	s := span.Span{Pos: 0, Len: uint32(len(sampleXML))}

	first, err := r.Resolve(s)
	require.NoError(t, err)
	second, err := r.Resolve(s)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDumpShallowRendersTopLevelElement(t *testing.T) {
	r, _ := openResolver(t)
	s := span.Span{Pos: 6, Len: uint32(len(sampleXML) - 6 - len("</dblp>"))}

	out, err := r.DumpShallow(s)
	require.NoError(t, err)
	require.Contains(t, out, "<article>")
	require.Contains(t, out, "Ada Lovelace")
	require.Contains(t, out, "Notes")
}
