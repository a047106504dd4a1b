// Package db assembles the four subdatabases (title, author, inverted
// index, top-K) into one opened database, grounded on
// original_source/inc/database.hh's Database class. The original keeps
// "title" and "author" as two hardcoded SubDatabase fields plus a pair
// of translation-unit-global managers (invidx_manager, topk_manager);
// Go has no global-singleton idiom for this, so they become owned
// fields of one Database struct instead.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"ndb/invindex"
	"ndb/keys"
	"ndb/ndberr"
	"ndb/recordstore"
	"ndb/span"
	"ndb/topk"
	"ndb/xmlcache"
)

// Which selects a title or author lookup, the Go analogue of the
// source's DatabaseState enum.
type Which int

const (
	Title Which = iota
	Author
)

// Result pairs a resolved span with the key string it was found
// under, the shape find/search return results in.
type Result struct {
	Span span.Span
	Key  string
}

// Database owns the four subdatabases of one opened corpus: title and
// author B+ tree indexes, the inverted index, and the top-K name
// counter. Each subdatabase owns its own files and shares no state
// with the others. resolver is bound lazily by BindSource once a
// source XML file is known (see ingest.Run), since an opened database
// with nothing ingested yet has no file to resolve spans against.
type Database struct {
	dir string

	title    *recordstore.Store[keys.TitleAuthorKey, *span.Span]
	author   *recordstore.Store[keys.TitleAuthorKey, *span.Span]
	invidx   *invindex.Index
	topk     *topk.Counters
	resolver *xmlcache.Resolver
}

// Open opens an existing database directory, or creates one if create
// is set. name becomes the file prefix for every subdatabase file
// (see SPEC_FULL.md §8 for the file layout).
func Open(baseDir, name string, create bool) (*Database, error) {
	dir := filepath.Join(baseDir, name)
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
	} else if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ndberr.ErrFileMissing, dir)
	}

	path := func(suffix string) string { return filepath.Join(dir, name+suffix) }

	titleStore, err := recordstore.Open[keys.TitleAuthorKey, *span.Span](
		path("_idx_title.bin"), path("_rec_title.bin"), create, keys.TitleAuthorOps{}, 8)
	if err != nil {
		return nil, fmt.Errorf("db: title: %w", err)
	}
	authorStore, err := recordstore.Open[keys.TitleAuthorKey, *span.Span](
		path("_idx_author.bin"), path("_rec_author.bin"), create, keys.TitleAuthorOps{}, 8)
	if err != nil {
		titleStore.Close()
		return nil, fmt.Errorf("db: author: %w", err)
	}
	invidx, err := invindex.Open(path("_ii_idx.bin"), path("_ii_rec.bin"), create)
	if err != nil {
		titleStore.Close()
		authorStore.Close()
		return nil, fmt.Errorf("db: invindex: %w", err)
	}
	tk, err := topk.Open(path("_topk_idx.bin"), path("_topk_rec.bin"), create)
	if err != nil {
		titleStore.Close()
		authorStore.Close()
		invidx.Close()
		return nil, fmt.Errorf("db: topk: %w", err)
	}

	return &Database{dir: dir, title: titleStore, author: authorStore, invidx: invidx, topk: tk}, nil
}

// Close releases every subdatabase's file handles.
func (db *Database) Close() error {
	if db.resolver != nil {
		db.resolver.Close()
	}
	var first error
	for _, c := range []func() error{db.title.Close, db.author.Close, db.invidx.Close, db.topk.Close} {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BindSource points db at the XML file spans resolve against, closing
// any previously bound source first. Called by ingest.Run once it
// knows the path of the corpus it's about to stream.
func (db *Database) BindSource(xmlPath string) error {
	if db.resolver != nil {
		db.resolver.Close()
	}
	r, err := xmlcache.Open(xmlPath)
	if err != nil {
		return err
	}
	db.resolver = r
	return nil
}

// Resolve returns the raw XML bytes at s, reading through the bound
// source file.
func (db *Database) Resolve(s span.Span) ([]byte, error) {
	if db.resolver == nil {
		return nil, ndberr.ErrNoSource
	}
	return db.resolver.Resolve(s)
}

// DumpShallow renders a shallow presentation of the element at s.
func (db *Database) DumpShallow(s span.Span) (string, error) {
	if db.resolver == nil {
		return "", ndberr.ErrNoSource
	}
	return db.resolver.DumpShallow(s)
}

func (db *Database) store(which Which) *recordstore.Store[keys.TitleAuthorKey, *span.Span] {
	if which == Author {
		return db.author
	}
	return db.title
}

// Insert stores one bibliographic span under key (a title or author
// string) in the chosen subdatabase, indexes its tokens in the
// inverted index, and, for author keys, feeds the whole name into the
// top-K counter verbatim (original_source/inc/read_xml.hh's ingest
// loop: the inverted index is word-split, top-K is not).
func (db *Database) Insert(s span.Span, key string, which Which) error {
	store := db.store(which)
	if _, err := store.Insert(&span.Span{Pos: s.Pos, Len: s.Len}, func(id int64) keys.TitleAuthorKey {
		return keys.NewTitleAuthorKey(key, id)
	}); err != nil {
		return err
	}
	if err := db.invidx.Build(key, s.Pos, s.Len); err != nil {
		return err
	}
	if which == Author {
		if err := db.topk.Insert(key); err != nil {
			return err
		}
	}
	return nil
}

// Find performs a prefix lookup: find_geq(prefix) followed by a
// forward scan while the key starts with prefix.
func (db *Database) Find(prefix string, which Which) ([]Result, error) {
	if prefix == "" {
		return nil, ndberr.ErrEmptyQuery
	}
	store := db.store(which)
	start := keys.NewTitleAuthorKey(prefix, -1)

	it, err := store.Tree().FindGEQ(start)
	if err != nil {
		return nil, err
	}
	end := store.Tree().End()

	var results []Result
	for !it.Equal(end) {
		k := it.Key()
		if !k.HasPrefix(prefix) {
			break
		}
		var s span.Span
		ok, err := store.Get(k.ID, &s)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, Result{Span: s, Key: k.String()})
		}
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Search performs a multi-token inverted-index lookup.
func (db *Database) Search(tokens []string) ([]span.Span, error) {
	if len(tokens) == 0 {
		return nil, ndberr.ErrEmptyQuery
	}
	return db.invidx.Find(tokens)
}

// TopK returns the top N author names by occurrence count.
func (db *Database) TopK(n int) ([]topk.Top, error) {
	return db.topk.MakeTopK(n)
}
