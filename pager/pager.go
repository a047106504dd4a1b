// Package pager provides fixed-record file I/O over a single regular
// file. It is the bottom layer shared by every index and record file in
// the engine: the B+ tree, the record stores, the inverted index and the
// top-K counter all read and write through a Pager.
package pager

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"ndb/ndberr"
)

// PageID names a fixed-size slot in an index or record file. Slot 0 of an
// index file is reserved for the tree header; record files have no such
// reservation. Ids grow monotonically and are never reused.
type PageID = int64

// Record is anything Pager can persist: a fixed-size, binary-encodable
// value. Implementations live next to the type they encode (see
// bplustree.Node, span.Span, topk.Counter).
type Record interface {
	Size() int
	Encode() []byte
	Decode([]byte) error
}

// Pager binds one regular file and exposes fixed-record I/O templated on
// a Record type, mirroring the original's `template <class Register>`
// Pager operations.
type Pager[R Record] struct {
	file     *os.File
	path     string
	recSize  int
	empty    bool // true iff Open just created this file
}

// Open opens an existing file for read+write, or if create is set,
// truncates/creates one. recSize is the on-disk size of R (constant per
// instantiation, passed explicitly since R may be a pointer-receiver
// type whose zero value can't self-report its size without allocating).
func Open[R Record](path string, create bool, recSize int) (*Pager[R], error) {
	if !create {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ndberr.ErrFileMissing, path)
			}
			return nil, fmt.Errorf("%w: %s: %v", ndberr.ErrFileCorrupt, path, err)
		}
		f, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ndberr.ErrFileCorrupt, path, err)
		}
		return &Pager[R]{file: f, path: path, recSize: recSize}, nil
	}

	// create always truncates, so the file is always "empty" afterward,
	// matching the source: `if (create) { empty = true; open(...trunc...); }`
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ndberr.ErrFileCorrupt, path, err)
	}
	return &Pager[R]{file: f, path: path, recSize: recSize, empty: true}, nil
}

// Empty reports whether this Open call just created the file (used by
// BplusTree to decide whether to initialise a header page).
func (p *Pager[R]) Empty() bool { return p.empty }

// Save seeks to n*recSize and writes the encoded record. It does not
// flush explicitly, matching the original's unbuffered-but-unsynced
// write discipline: no implicit fsync.
func (p *Pager[R]) Save(n PageID, r R) error {
	buf := r.Encode()
	if len(buf) != p.recSize {
		return fmt.Errorf("pager: encoded record is %d bytes, want %d", len(buf), p.recSize)
	}
	off := n * int64(p.recSize)
	if _, err := p.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("pager: save %d: %w", n, err)
	}
	return nil
}

// Recover reads the record at slot n into r and reports whether at least
// one byte was read (mirrors the source's `gcount() > 0`).
func (p *Pager[R]) Recover(n PageID, r R) (bool, error) {
	buf := make([]byte, p.recSize)
	read, err := p.file.ReadAt(buf, n*int64(p.recSize))
	if read == 0 {
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("pager: recover slot %d: %w", n, err)
		}
		return false, nil
	}
	if err := r.Decode(buf); err != nil {
		return false, fmt.Errorf("pager: decode slot %d: %w", n, err)
	}
	return true, nil
}

// GetID returns the id a new record would get if appended: file size
// divided by the record size.
func (p *Pager[R]) GetID() (PageID, error) {
	st, err := p.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("pager: stat: %w", err)
	}
	return st.Size() / int64(p.recSize), nil
}

// Erase writes a single sentinel byte at offset n*recSize. Present for
// parity with the source's Pager::erase; unused elsewhere (no
// subsystem calls it).
func (p *Pager[R]) Erase(n PageID) error {
	_, err := p.file.WriteAt([]byte{'X'}, n*int64(p.recSize))
	return err
}

// Close releases the underlying file handle.
func (p *Pager[R]) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// PutUint64 / GetUint64 / PutUint32 / GetUint32 are tiny helpers record encoders use to keep the
// manual binary.LittleEndian framing consistent across packages.
func PutUint64(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }
func GetUint64(b []byte) int64    { return int64(binary.LittleEndian.Uint64(b)) }
func PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func GetUint32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
