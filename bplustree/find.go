package bplustree

import "ndb/keys"

// findLeaf descends from the root to the leaf find/find_geq should
// scan, using the source's asymmetric comparison: at an internal node,
// pos advances while data[pos] <= key (so a key equal to a separator
// is skipped over and routed into the subtree to its right); at a
// leaf the scan (in leafPos, below) advances only while data[pos] <
// key. This is load-bearing: it routes duplicate-equal keys past the
// separator and then selects the leftmost matching key at the leaf —
// the classic convention for a tree whose internal separators are
// copies promoted up from a split.
func (t *Tree[K]) findLeaf(key K) (*Node[K], error) {
	if t.root == 0 {
		return nil, nil
	}
	id := t.root
	for {
		n, err := t.readNode(id)
		if err != nil {
			return nil, err
		}
		if n.IsLeaf() {
			return n, nil
		}
		i := 0
		for i < int(n.Count) && n.Data[i].LessOrEqual(key) {
			i++
		}
		id = n.Children[i]
	}
}

// leafPos returns the first index in n.Data whose key is not strictly
// less than key — the lower bound, using "<". Used both by the leaf
// scan in find/find_geq and, uniformly regardless of node kind, by
// insert_helper's own position search.
func leafPos[K keys.Ordered[K]](n *Node[K], key K) int {
	i := 0
	for i < int(n.Count) && n.Data[i].Less(key) {
		i++
	}
	return i
}

// FindGEQ returns an iterator positioned at the first key >= key, or
// End() if no such key exists. This is the primitive the inverted
// index's single-token lookup uses (`find_geq({hash-1, -1})`).
func (t *Tree[K]) FindGEQ(key K) (*Iterator[K], error) {
	n, err := t.findLeaf(key)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return t.End(), nil
	}
	pos := leafPos(n, key)
	for pos >= int(n.Count) {
		if n.Right == 0 {
			return t.End(), nil
		}
		n, err = t.readNode(n.Right)
		if err != nil {
			return nil, err
		}
		pos = 0
	}
	return &Iterator[K]{t: t, node: n, pos: pos}, nil
}

// Find reports whether key is present and, if so, returns the stored
// copy (which may carry a different out-of-band ID than key if K's
// Equal ignores it — the case for both TitleAuthorKey and HashKey,
// which compare only their ordering field).
func (t *Tree[K]) Find(key K) (K, bool, error) {
	var zero K
	it, err := t.FindGEQ(key)
	if err != nil {
		return zero, false, err
	}
	if it.node == nil {
		return zero, false, nil
	}
	got := it.Key()
	if got.Equal(key) {
		return got, true, nil
	}
	return zero, false, nil
}
