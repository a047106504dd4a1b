// Package span defines the one payload shape shared by the title
// index, the author index and the inverted index: a (pos, len) slice
// into the source XML file. Grounded on original_source/inc/util.hh's
// single `Record{pos, len}` struct, reused across every subdatabase
// there the same way.
package span

import "ndb/pager"

// Span locates a byte range in the ingested XML file.
type Span struct {
	Pos uint32
	Len uint32
}

func (s *Span) Size() int { return 8 }

func (s *Span) Encode() []byte {
	buf := make([]byte, 8)
	pager.PutUint32(buf[0:4], s.Pos)
	pager.PutUint32(buf[4:8], s.Len)
	return buf
}

func (s *Span) Decode(buf []byte) error {
	s.Pos = pager.GetUint32(buf[0:4])
	s.Len = pager.GetUint32(buf[4:8])
	return nil
}
