// Package topk implements the ranked author-name frequency counter: a
// HashKey-keyed B+ tree paired with a record file of {count, name}
// counters, and a bounded min-heap to extract the top N. Grounded on
// original_source/inc/topk.hh (TopK::insert/make_topk/print), built in
// the bplustree/recordstore idiom used by the rest of this engine.
package topk

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"ndb/keys"
	"ndb/pager"
	"ndb/recordstore"
)

const nameWidth = 64

// Counter is the payload for one distinct (as far as the index knows)
// name: an occurrence count and the name itself, fixed-width on disk.
type Counter struct {
	Count uint32
	Name  [nameWidth]byte
}

func (c *Counter) Size() int { return 4 + nameWidth }
func (c *Counter) Encode() []byte {
	buf := make([]byte, 4+nameWidth)
	pager.PutUint32(buf[:4], c.Count)
	copy(buf[4:], c.Name[:])
	return buf
}
func (c *Counter) Decode(buf []byte) error {
	c.Count = pager.GetUint32(buf[:4])
	copy(c.Name[:], buf[4:4+nameWidth])
	return nil
}

func (c *Counter) name() string {
	n := 0
	for n < len(c.Name) && c.Name[n] != 0 {
		n++
	}
	return string(c.Name[:n])
}

func newCounter(count uint32, name string) *Counter {
	c := &Counter{Count: count}
	copy(c.Name[:], name)
	return c
}

// Top is one counted name returned from MakeTopK.
type Top struct {
	Name  string
	Count uint32
}

// Counters is a HashKey-keyed B+ tree over Counter payloads.
type Counters struct {
	store *recordstore.Store[keys.HashKey, *Counter]
}

func Open(indexPath, recordPath string, create bool) (*Counters, error) {
	store, err := recordstore.Open[keys.HashKey, *Counter](indexPath, recordPath, create, keys.HashKeyOps{}, 4+nameWidth)
	if err != nil {
		return nil, fmt.Errorf("topk: %w", err)
	}
	return &Counters{store: store}, nil
}

func (c *Counters) Close() error { return c.store.Close() }

func hash(s string) uint64 { return xxhash.Sum64String(s) }

// Insert increments name's count, or creates a new counter for it.
// Lookup is by exact hash match only — a collision between two
// distinct names is not detected: the first entry whose hash matches
// is compared by exact name, and if it differs a second independent
// entry is created for the new name (a preserved weakness).
func (c *Counters) Insert(name string) error {
	h := hash(name)
	got, ok, err := c.store.Tree().Find(keys.HashKey{Hash: h, ID: -1})
	if err != nil {
		return err
	}
	if ok {
		var r Counter
		found, err := c.store.Get(got.ID, &r)
		if err != nil {
			return err
		}
		if found && r.name() == name {
			r.Count++
			return c.store.Set(got.ID, &r)
		}
	}
	_, err = c.store.Insert(newCounter(1, name), func(id pager.PageID) keys.HashKey {
		return keys.HashKey{Hash: h, ID: id}
	})
	return err
}

// MakeTopK scans every counter record and keeps the N with the
// highest counts using a bounded min-heap, matching the source's
// std::make_heap/pop_heap-with-std::greater loop.
func (c *Counters) MakeTopK(n int) ([]Top, error) {
	id, err := c.store.NextID()
	if err != nil {
		return nil, err
	}

	h := &minHeap{}
	heap.Init(h)
	for i := pager.PageID(0); i < id; i++ {
		var r Counter
		ok, err := c.store.Get(i, &r)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		heap.Push(h, Top{Name: r.name(), Count: r.Count})
		if h.Len() > n {
			heap.Pop(h)
		}
	}

	out := make([]Top, len(*h))
	copy(out, *h)
	return out, nil
}

// Print renders the top K entries of tops, sorted descending by
// count, the way the source's TopK::print does.
func Print(tops []Top, k int) []string {
	sorted := append([]Top(nil), tops...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if k > len(sorted) {
		k = len(sorted)
	}
	lines := make([]string, 0, k)
	for i := 0; i < k; i++ {
		lines = append(lines, fmt.Sprintf("[%d] %s (%d)", i+1, sorted[i].Name, sorted[i].Count))
	}
	return lines
}

// minHeap is a container/heap min-heap on Count, the Go idiom for the
// bounded priority queue the source built from std::make_heap with
// std::greater (no third-party heap library appears anywhere in the
// retrieval pack, so stdlib is the right call here).
type minHeap []Top

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].Count < h[j].Count }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(Top)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
