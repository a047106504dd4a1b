// Package recordstore pairs a B+ tree index with a payload record
// file: the "one index file plus one record file per subdatabase"
// shape the title/author store, the inverted index, and the top-K
// counter all share. It generalizes a heapfile-manager shape (many
// slotted 4KB-page heap files addressed by {fileID, pageNo,
// slotIndex}) down to the simpler pairing this engine actually needs:
// one fixed-size record pager per subdatabase, addressed by a
// sequential id with no page-internal slot directory.
package recordstore

import (
	"fmt"

	"ndb/bplustree"
	"ndb/keys"
	"ndb/pager"
)

// Store binds a B+ tree over key type K to a record pager of payload
// type R. Insert appends the payload first (so its id is known) then
// indexes key, mirroring the original's insert-then-index ordering in
// original_source/inc/database.hh.
type Store[K keys.Ordered[K], R pager.Record] struct {
	tree *bplustree.Tree[K]
	recs *pager.Pager[R]
}

// Open opens (or creates) the paired index and record files, with the
// index tree's fan-out fixed at bplustree.DefaultOrder. recSize is R's
// fixed encoded width.
func Open[K keys.Ordered[K], R pager.Record](indexPath, recordPath string, create bool, ops keys.KeyOps[K], recSize int) (*Store[K, R], error) {
	return OpenOrder[K, R](indexPath, recordPath, create, ops, recSize, bplustree.DefaultOrder)
}

// OpenOrder is Open with an explicit tree fan-out, for tests that need
// a small-order tree to exercise split/height behavior by hand.
func OpenOrder[K keys.Ordered[K], R pager.Record](indexPath, recordPath string, create bool, ops keys.KeyOps[K], recSize, order int) (*Store[K, R], error) {
	tree, err := bplustree.Open[K](indexPath, create, ops, order)
	if err != nil {
		return nil, fmt.Errorf("recordstore: %w", err)
	}
	recs, err := pager.Open[R](recordPath, create, recSize)
	if err != nil {
		tree.Close()
		return nil, fmt.Errorf("recordstore: %w", err)
	}
	return &Store[K, R]{tree: tree, recs: recs}, nil
}

// Tree exposes the underlying index for direct Find/FindGEQ/iteration.
func (s *Store[K, R]) Tree() *bplustree.Tree[K] { return s.tree }

// Append writes r to the next free record slot and returns its id,
// without touching the index.
func (s *Store[K, R]) Append(r R) (pager.PageID, error) {
	id, err := s.recs.GetID()
	if err != nil {
		return 0, err
	}
	if err := s.recs.Save(id, r); err != nil {
		return 0, err
	}
	return id, nil
}

// Get reads the record at id into out.
func (s *Store[K, R]) Get(id pager.PageID, out R) (bool, error) {
	return s.recs.Recover(id, out)
}

// Set overwrites the record at an already-assigned id, for in-place
// updates (e.g. topk's count increment).
func (s *Store[K, R]) Set(id pager.PageID, r R) error {
	return s.recs.Save(id, r)
}

// NextID reports the id the next Append would assign, for callers
// that need to scan every assigned record linearly (e.g. topk's
// make_topk).
func (s *Store[K, R]) NextID() (pager.PageID, error) {
	return s.recs.GetID()
}

// Insert appends r, then indexes the key makeKey builds from the
// resulting id — the common case for every subdatabase in this
// engine, where the indexed key embeds the payload's own id (e.g.
// HashKey{hash, id}) and so can't be built before the id is known.
func (s *Store[K, R]) Insert(r R, makeKey func(id pager.PageID) K) (pager.PageID, error) {
	id, err := s.Append(r)
	if err != nil {
		return 0, err
	}
	if err := s.tree.Insert(makeKey(id)); err != nil {
		return 0, err
	}
	return id, nil
}

// Close releases both the index and record file handles.
func (s *Store[K, R]) Close() error {
	e1 := s.tree.Close()
	e2 := s.recs.Close()
	if e1 != nil {
		return e1
	}
	return e2
}
