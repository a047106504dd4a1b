package bplustree

import "ndb/pager"

// header is a distinct, typed slot-0 page, rather than aliasing it
// with Node, so node allocation can start cleanly at slot 1. It shares
// one physical file with the node pager (one index file per
// subdatabase) by using a second *pager.Pager bound to the same path
// and the same record size — the header pager only ever addresses
// slot 0, the node pager only ever addresses slots ≥1, so the two
// never collide.
type header struct {
	Root pager.PageID

	// recSize is the node pager's fixed record size this header's
	// pager was opened with; Encode pads to it so the header occupies
	// exactly one node-sized slot even though it only uses 8 bytes.
	recSize int
}

func (h *header) Size() int { return h.recSize }

func (h *header) Encode() []byte {
	buf := make([]byte, h.recSize)
	pager.PutUint64(buf, h.Root)
	return buf
}

func (h *header) Decode(buf []byte) error {
	h.Root = pager.GetUint64(buf[:8])
	return nil
}
