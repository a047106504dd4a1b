package bplustree

import "ndb/keys"

// Iterator walks a tree's leaves in key order, following Right chains
// rather than re-descending from the root. A nil node means End().
//
// Equality (used by every internal call site as `it != End()`, never
// `it == specificKey`) compares the leaf's page id and in-leaf
// position — two iterators are equal iff they name the same slot.
type Iterator[K keys.Ordered[K]] struct {
	t    *Tree[K]
	node *Node[K]
	pos  int
}

// Begin returns an iterator at the first key in the tree, or End() if
// the tree is empty.
func (t *Tree[K]) Begin() (*Iterator[K], error) {
	if t.root == 0 {
		return t.End(), nil
	}
	id := t.root
	for {
		n, err := t.readNode(id)
		if err != nil {
			return nil, err
		}
		if n.IsLeaf() {
			if n.Count == 0 {
				return t.End(), nil
			}
			return &Iterator[K]{t: t, node: n, pos: 0}, nil
		}
		id = n.Children[0]
	}
}

// End returns the sentinel "past the last entry" iterator.
func (t *Tree[K]) End() *Iterator[K] { return &Iterator[K]{t: t} }

// Equal reports whether it and other name the same slot.
func (it *Iterator[K]) Equal(other *Iterator[K]) bool {
	if it.node == nil || other.node == nil {
		return it.node == other.node
	}
	return it.node.PageID == other.node.PageID && it.pos == other.pos
}

// Key returns the key at the iterator's current position. Calling it
// on End() panics, as dereferencing the source's end iterator would.
func (it *Iterator[K]) Key() K { return it.node.Data[it.pos] }

// Next advances the iterator by one key, crossing into the next leaf
// via Right when the current one is exhausted.
func (it *Iterator[K]) Next() error {
	if it.node == nil {
		return nil
	}
	it.pos++
	for it.pos >= int(it.node.Count) {
		if it.node.Right == 0 {
			it.node = nil
			it.pos = 0
			return nil
		}
		n, err := it.t.readNode(it.node.Right)
		if err != nil {
			return err
		}
		it.node = n
		it.pos = 0
		if n.Count > 0 {
			break
		}
	}
	return nil
}
