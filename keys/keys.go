// Package keys defines the ordered key types the B+ tree is
// instantiated over. Each key embeds an out-of-band payload id that
// does not participate in ordering.
package keys

import (
	"bytes"

	"ndb/pager"
)

// Ordered is the constraint bplustree.Tree requires of its key type: a
// total order plus equality, expressed the way the original's
// `operator<`/`operator<=`/`operator==` triplet on Key/IvKey/TkKey was.
type Ordered[T any] interface {
	Less(T) bool
	LessOrEqual(T) bool
	Equal(T) bool
}

// titleAuthorKeyWidth is the fixed byte width of a title/author sort
// key. Strings longer than titleAuthorKeyWidth-3 bytes are truncated
// to titleAuthorKeyWidth-3 bytes with a literal "..." suffix appended,
// landing on exactly titleAuthorKeyWidth bytes of content.
const titleAuthorKeyWidth = 64

// TitleAuthorKey orders lexicographically on Bytes; ID names the payload
// record in the title/author record file and is never compared.
type TitleAuthorKey struct {
	Bytes [titleAuthorKeyWidth]byte
	ID    int64
}

// NewTitleAuthorKey packs s into a fixed-width, NUL-padded key, truncating
// with a "..." suffix if s is longer than titleAuthorKeyWidth-3 bytes.
func NewTitleAuthorKey(s string, id int64) TitleAuthorKey {
	var k TitleAuthorKey
	k.ID = id
	b := []byte(s)
	cut := titleAuthorKeyWidth - len("...")
	if len(b) > cut {
		b = append(append([]byte{}, b[:cut]...), "..."...)
	}
	copy(k.Bytes[:], b)
	return k
}

// String returns the NUL-terminated string stored in Bytes.
func (k TitleAuthorKey) String() string {
	n := bytes.IndexByte(k.Bytes[:], 0)
	if n < 0 {
		n = len(k.Bytes)
	}
	return string(k.Bytes[:n])
}

func (k TitleAuthorKey) Less(o TitleAuthorKey) bool {
	return bytes.Compare(k.Bytes[:], o.Bytes[:]) < 0
}
func (k TitleAuthorKey) LessOrEqual(o TitleAuthorKey) bool {
	return bytes.Compare(k.Bytes[:], o.Bytes[:]) <= 0
}
func (k TitleAuthorKey) Equal(o TitleAuthorKey) bool {
	return bytes.Equal(k.Bytes[:], o.Bytes[:])
}

// HasPrefix reports whether k's string starts with prefix, for the
// prefix-match "find" operation.
func (k TitleAuthorKey) HasPrefix(prefix string) bool {
	return len(k.String()) >= len(prefix) && k.String()[:len(prefix)] == prefix
}

// HashKey orders on Hash only; used by both the inverted index
// (hash(token)) and top-K (hash(name)). ID is an out-of-band payload
// pointer.
type HashKey struct {
	Hash uint64
	ID   int64
}

func (k HashKey) Less(o HashKey) bool        { return k.Hash < o.Hash }
func (k HashKey) LessOrEqual(o HashKey) bool { return k.Hash <= o.Hash }
func (k HashKey) Equal(o HashKey) bool       { return k.Hash == o.Hash }

// KeyOps is the encode/decode strategy bplustree.Node[K] is instantiated
// with: since Go generics can't call Encode/Decode on an unconstrained
// K's methods directly inside Node (K may not even be addressable the
// right way once stored in an array), the tree takes one of these
// alongside K itself, the same role an injected `cmp func(a, b []byte)
// int` comparator plays for an open-ended byte-slice key.
type KeyOps[K any] interface {
	// EncodedSize is the fixed number of bytes Encode always produces.
	EncodedSize() int
	Encode(K) []byte
	Decode([]byte) K
}

// TitleAuthorOps encodes a TitleAuthorKey as its 64 raw bytes followed
// by the 8-byte little-endian ID.
type TitleAuthorOps struct{}

func (TitleAuthorOps) EncodedSize() int { return titleAuthorKeyWidth + 8 }

func (TitleAuthorOps) Encode(k TitleAuthorKey) []byte {
	buf := make([]byte, titleAuthorKeyWidth+8)
	copy(buf, k.Bytes[:])
	pager.PutUint64(buf[titleAuthorKeyWidth:], k.ID)
	return buf
}

func (TitleAuthorOps) Decode(buf []byte) TitleAuthorKey {
	var k TitleAuthorKey
	copy(k.Bytes[:], buf[:titleAuthorKeyWidth])
	k.ID = pager.GetUint64(buf[titleAuthorKeyWidth:])
	return k
}

// HashKeyOps encodes a HashKey as an 8-byte hash followed by an 8-byte
// little-endian ID.
type HashKeyOps struct{}

func (HashKeyOps) EncodedSize() int { return 16 }

func (HashKeyOps) Encode(k HashKey) []byte {
	buf := make([]byte, 16)
	pager.PutUint64(buf[:8], int64(k.Hash))
	pager.PutUint64(buf[8:], k.ID)
	return buf
}

func (HashKeyOps) Decode(buf []byte) HashKey {
	return HashKey{
		Hash: uint64(pager.GetUint64(buf[:8])),
		ID:   pager.GetUint64(buf[8:]),
	}
}
