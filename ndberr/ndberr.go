// Package ndberr defines the error kinds surfaced across the core/shell
// boundary. Callers branch on kind with errors.Is; the
// wrapped error (where present) carries the underlying os/io failure.
package ndberr

import "errors"

var (
	// ErrFileMissing is returned by an open-existing call on an absent file.
	ErrFileMissing = errors.New("database file does not exist")
	// ErrFileCorrupt is returned when open fails for any other reason
	// (permissions, partial read, truncated header).
	ErrFileCorrupt = errors.New("database file could not be opened")
	// ErrAlreadyOpen is returned when a second database is opened while
	// one is already open.
	ErrAlreadyOpen = errors.New("a database is already open")
	// ErrNotOpen is returned by operations that require an open database.
	ErrNotOpen = errors.New("no database is open")
	// ErrBadArgCount is a CLI-level error: wrong number of arguments to a
	// shell command.
	ErrBadArgCount = errors.New("wrong number of arguments")
	// ErrEmptyQuery is returned for an empty inquiry to find/search.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrNoSource is returned by Database.Resolve/DumpShallow while no
	// source XML file is bound to the open database (Database.BindSource,
	// which ingest.Run calls, binds one).
	ErrNoSource = errors.New("no source XML file bound yet (run ingest first)")
)
