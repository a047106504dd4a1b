package bplustree

import (
	"fmt"

	"ndb/pager"
)

// Height reports the number of levels from root to leaf inclusive (a
// single-leaf tree has height 1); an empty tree has height 0.
func (t *Tree[K]) Height() (int, error) {
	if t.root == 0 {
		return 0, nil
	}
	height := 0
	id := t.root
	for {
		n, err := t.readNode(id)
		if err != nil {
			return 0, err
		}
		height++
		if n.IsLeaf() {
			return height, nil
		}
		id = n.Children[0]
	}
}

// Dump writes a depth-first textual rendering of the tree (returned as
// a string rather than taking an io.Writer, since every caller today
// is a single debug reply).
func (t *Tree[K]) Dump() (string, error) {
	if t.root == 0 {
		return "(empty)\n", nil
	}
	var out string
	err := t.dump(t.root, 0, &out)
	return out, err
}

func (t *Tree[K]) dump(id pager.PageID, depth int, out *string) error {
	n, err := t.readNode(id)
	if err != nil {
		return err
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	kind := "internal"
	if n.IsLeaf() {
		kind = "leaf"
	}
	*out += fmt.Sprintf("%s#%d %s count=%d right=%d\n", indent, n.PageID, kind, n.Count, n.Right)
	if n.IsLeaf() {
		return nil
	}
	for i := 0; i <= int(n.Count); i++ {
		if err := t.dump(n.Children[i], depth+1, out); err != nil {
			return err
		}
	}
	return nil
}
