// Command ndbshell is the interactive front end for the bibliographic
// index: a REPL that opens/creates a database directory, ingests a
// dblp-shaped XML corpus into it, and runs prefix/token/top-K queries
// against it. Grounded on a bufio.Scanner REPL loop ("db> " prompt,
// "exit" to quit) and original_source/inc/cmd.hh's verb set
// (create/open/find/search/top/close/exit/help), adapted to this
// engine's domain.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"ndb/db"
	"ndb/ingest"
	"ndb/ndberr"
	"ndb/span"
	"ndb/topk"
)

func main() {
	baseDir := flag.String("dir", "database", "directory holding database subdirectories")
	flag.Parse()

	shell := &shell{baseDir: *baseDir, out: os.Stdout}
	shell.run(os.Stdin)
}

type shell struct {
	baseDir string
	out     *os.File

	current     *db.Database
	currentName string

	// lastHits is the result list of the most recent find/search, so
	// show <n> can resolve one of them against the source XML without
	// the user having to retype pos/len.
	lastHits []span.Span
}

func (s *shell) run(in *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "db> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			break
		}
		if err := s.dispatch(line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	if s.current != nil {
		s.current.Close()
	}
}

func (s *shell) dispatch(line string) error {
	fields := strings.Fields(line)
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "create":
		return s.cmdOpen(args, true)
	case "open":
		return s.cmdOpen(args, false)
	case "close":
		return s.cmdClose(args)
	case "ingest":
		return s.cmdIngest(args)
	case "find":
		return s.cmdFind(args)
	case "search":
		return s.cmdSearch(args)
	case "show":
		return s.cmdShow(args)
	case "top":
		return s.cmdTop(args)
	case "whoami":
		return s.cmdWhoami(args)
	case "stats":
		return s.cmdStats(args)
	case "help":
		s.cmdHelp()
		return nil
	default:
		fmt.Fprintf(s.out, "unknown command %q (try 'help')\n", verb)
		return nil
	}
}

func (s *shell) cmdOpen(args []string, create bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: open|create <name>", ndberr.ErrBadArgCount)
	}
	if s.current != nil {
		return ndberr.ErrAlreadyOpen
	}
	d, err := db.Open(s.baseDir, args[0], create)
	if err != nil {
		return err
	}
	s.current, s.currentName = d, args[0]
	fmt.Fprintf(s.out, "opened %q\n", args[0])
	return nil
}

func (s *shell) cmdClose(args []string) error {
	if len(args) != 0 {
		return ndberr.ErrBadArgCount
	}
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	err := s.current.Close()
	s.current, s.currentName = nil, ""
	return err
}

func (s *shell) cmdIngest(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: ingest <path.xml>", ndberr.ErrBadArgCount)
	}
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	if err := ingest.Run(args[0], s.current); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "ingested %s\n", args[0])
	return nil
}

func (s *shell) cmdFind(args []string) error {
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: usage: find <prefix> [title|author]", ndberr.ErrBadArgCount)
	}
	which := db.Title
	prefix := strings.Join(args, " ")
	if len(args) > 1 {
		last := strings.ToLower(args[len(args)-1])
		if last == "title" || last == "author" {
			if last == "author" {
				which = db.Author
			}
			prefix = strings.Join(args[:len(args)-1], " ")
		}
	}
	results, err := s.current.Find(prefix, which)
	if err != nil {
		return err
	}
	s.lastHits = s.lastHits[:0]
	for i, r := range results {
		fmt.Fprintf(s.out, "[%d] %s (pos=%d len=%d)\n", i+1, r.Key, r.Span.Pos, r.Span.Len)
		s.lastHits = append(s.lastHits, r.Span)
	}
	fmt.Fprintf(s.out, "%s found\n", humanize.Comma(int64(len(results))))
	return nil
}

func (s *shell) cmdSearch(args []string) error {
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	spans, err := s.current.Search(args)
	if err != nil {
		return err
	}
	s.lastHits = append(s.lastHits[:0], spans...)
	for i, sp := range spans {
		fmt.Fprintf(s.out, "[%d] pos=%d len=%d\n", i+1, sp.Pos, sp.Len)
	}
	fmt.Fprintf(s.out, "%s found\n", humanize.Comma(int64(len(spans))))
	return nil
}

// cmdShow resolves the n'th hit from the most recent find/search
// (1-based) against the ingested source XML and prints a shallow
// rendering of its element.
func (s *shell) cmdShow(args []string) error {
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: show <n>", ndberr.ErrBadArgCount)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if n < 1 || n > len(s.lastHits) {
		return fmt.Errorf("show: %d is out of range (last find/search had %d hits)", n, len(s.lastHits))
	}
	out, err := s.current.DumpShallow(s.lastHits[n-1])
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	return nil
}

func (s *shell) cmdTop(args []string) error {
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	n := 10
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("top: %w", err)
		}
		n = v
	}
	tops, err := s.current.TopK(n)
	if err != nil {
		return err
	}
	for _, line := range topk.Print(tops, n) {
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *shell) cmdWhoami(args []string) error {
	if len(args) != 0 {
		return ndberr.ErrBadArgCount
	}
	if s.current == nil {
		fmt.Fprintln(s.out, "(no database open)")
		return nil
	}
	fmt.Fprintln(s.out, s.currentName)
	return nil
}

func (s *shell) cmdStats(args []string) error {
	if s.current == nil {
		return ndberr.ErrNotOpen
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Fprintf(s.out, "heap in use: %s\n", humanize.Bytes(mem.HeapInuse))
	return nil
}

func (s *shell) cmdHelp() {
	fmt.Fprintln(s.out, `commands:
  create <name>              create and open a new database
  open <name>                 open an existing database
  close                       close the open database
  ingest <path.xml>           stream a dblp-shaped XML file into the open database
  find <prefix> [title|author]  prefix lookup (default title)
  search <token...>           inverted-index lookup, tokens intersected
  show <n>                    render the n'th hit of the last find/search from the source XML
  top [n]                     print the n most frequent author names (default 10)
  whoami                      print the name of the open database
  stats                       print process memory stats
  exit                        quit`)
}
