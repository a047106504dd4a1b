package bplustree

import (
	"fmt"

	"ndb/keys"
	"ndb/ndberr"
	"ndb/pager"
)

// Tree is a persistent B+ tree over key type K. It holds no node
// cache: Find, FindGEQ and Insert all read every node they touch
// straight from the node pager.
type Tree[K keys.Ordered[K]] struct {
	ops   keys.KeyOps[K]
	order int
	hp    *pager.Pager[*header]
	np    *pager.Pager[*Node[K]]
	// root is the page id of the tree's root node, 0 meaning empty.
	root pager.PageID
}

// Open opens (or, if create, initialises) the index file at path as a
// B+ tree over K with the given fan-out. The header and nodes share
// one physical file through two pagers opened on the same path at the
// same record size — see header.go. Production callers pass
// DefaultOrder; a smaller order is only useful for exercising
// split/height behavior in tests.
func Open[K keys.Ordered[K]](path string, create bool, ops keys.KeyOps[K], order int) (*Tree[K], error) {
	recSize := encodedSize[K](order, ops)

	hp, err := pager.Open[*header](path, create, recSize)
	if err != nil {
		return nil, fmt.Errorf("bplustree: open header: %w", err)
	}
	np, err := pager.Open[*Node[K]](path, false, recSize)
	if err != nil {
		hp.Close()
		return nil, fmt.Errorf("bplustree: open nodes: %w", err)
	}

	t := &Tree[K]{ops: ops, order: order, hp: hp, np: np}

	if hp.Empty() {
		t.root = 0
		if err := t.saveHeader(); err != nil {
			return nil, err
		}
		return t, nil
	}

	h := &header{recSize: recSize}
	ok, err := hp.Recover(0, h)
	if err != nil {
		return nil, fmt.Errorf("bplustree: read header: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("bplustree: %w: %s: missing header slot", ndberr.ErrFileCorrupt, path)
	}
	t.root = h.Root
	return t, nil
}

// Close releases both underlying file handles.
func (t *Tree[K]) Close() error {
	e1 := t.hp.Close()
	e2 := t.np.Close()
	if e1 != nil {
		return e1
	}
	return e2
}

func (t *Tree[K]) saveHeader() error {
	return t.hp.Save(0, &header{Root: t.root, recSize: encodedSize[K](t.order, t.ops)})
}

func (t *Tree[K]) newNode() (*Node[K], error) {
	id, err := t.np.GetID()
	if err != nil {
		return nil, err
	}
	n := NewNode(t.ops, t.order)
	n.PageID = id
	return n, nil
}

func (t *Tree[K]) writeNode(n *Node[K]) error { return t.np.Save(n.PageID, n) }

func (t *Tree[K]) readNode(id pager.PageID) (*Node[K], error) {
	n := NewNode(t.ops, t.order)
	ok, err := t.np.Recover(id, n)
	if err != nil {
		return nil, fmt.Errorf("bplustree: read node %d: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("bplustree: node %d not found", id)
	}
	return n, nil
}

// Empty reports whether the tree holds no entries at all.
func (t *Tree[K]) Empty() bool { return t.root == 0 }
