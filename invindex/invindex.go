// Package invindex implements the token-hash inverted index: a
// HashKey-keyed B+ tree paired with a record file of (pos,len) spans
// into the source XML. Grounded on
// original_source/inc/inverted_index.hh (InvertedIndex::build/insert/
// find_single_value/intersection), built in the bplustree/recordstore
// idiom used throughout this engine, not ported line-by-line from C++.
package invindex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"ndb/keys"
	"ndb/pager"
	"ndb/recordstore"
	"ndb/span"
)

// Index is a HashKey-keyed B+ tree of postings.
type Index struct {
	store *recordstore.Store[keys.HashKey, *span.Span]
}

// Open opens (or creates) the inverted index's index and record
// files.
func Open(indexPath, recordPath string, create bool) (*Index, error) {
	store, err := recordstore.Open[keys.HashKey, *span.Span](indexPath, recordPath, create, keys.HashKeyOps{}, 8)
	if err != nil {
		return nil, fmt.Errorf("invindex: %w", err)
	}
	return &Index{store: store}, nil
}

func (ix *Index) Close() error { return ix.store.Close() }

// hash is xxhash applied to a token's raw bytes, standing in for the
// hash(token) the original computed with std::hash<string>.
func hash(s string) uint64 { return xxhash.Sum64String(s) }

// Build indexes every whitespace-separated token in text against the
// (pos,len) span of the source record it came from.
func (ix *Index) Build(text string, pos, length uint32) error {
	for _, tok := range strings.Fields(text) {
		if err := ix.insert(tok, pos, length); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) insert(token string, pos, length uint32) error {
	h := hash(token)
	_, err := ix.store.Insert(&span.Span{Pos: pos, Len: length}, func(id pager.PageID) keys.HashKey {
		return keys.HashKey{Hash: h, ID: id}
	})
	return err
}

// hit is a deduplicating set element: (pos,len) pairs, matching the
// original's std::set<std::pair<uint32_t,uint32_t>> result_set.
type hit struct{ pos, length uint32 }

// FindSingle returns the deduplicated set of spans indexed under tok.
func (ix *Index) FindSingle(tok string) (map[hit]struct{}, error) {
	h := hash(tok)
	it, err := ix.store.Tree().FindGEQ(keys.HashKey{Hash: h - 1, ID: -1})
	if err != nil {
		return nil, err
	}
	end := ix.store.Tree().End()

	result := make(map[hit]struct{})
	for !it.Equal(end) && it.Key().Hash == h {
		var s span.Span
		ok, err := ix.store.Get(it.Key().ID, &s)
		if err != nil {
			return nil, err
		}
		if ok {
			result[hit{s.Pos, s.Len}] = struct{}{}
		}
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Find returns the intersection of the result sets of every token in
// tokens. A single token is returned as-is; an empty list returns
// nothing.
func (ix *Index) Find(tokens []string) ([]span.Span, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	first, err := ix.FindSingle(tokens[0])
	if err != nil {
		return nil, err
	}
	result := first
	for _, tok := range tokens[1:] {
		next, err := ix.FindSingle(tok)
		if err != nil {
			return nil, err
		}
		result = intersect(result, next)
	}

	out := make([]span.Span, 0, len(result))
	for h := range result {
		out = append(out, span.Span{Pos: h.pos, Len: h.length})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Len < out[j].Len
	})
	return out, nil
}

func intersect(a, b map[hit]struct{}) map[hit]struct{} {
	out := make(map[hit]struct{})
	for s := range a {
		if _, ok := b[s]; ok {
			out[s] = struct{}{}
		}
	}
	return out
}
