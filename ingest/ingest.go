// Package ingest streams a bibliographic XML corpus into an opened
// database: for every direct child of the document root it collects
// the text of any nested <author>/<title> elements, splits
// multi-valued fields, and inserts each resulting key together with
// the (pos,len) span of the whole record. Grounded on
// original_source/inc/read_xml.hh's libxml2 SAX state machine
// (on_start_element/on_end_element, the layer_count==1 record
// boundary, the " - "/"; " field splitter), reimplemented against
// stdlib encoding/xml.Decoder — no XML library of any shape appears
// anywhere in the retrieval pack, so there is no ecosystem idiom to
// follow instead, and Decoder.InputOffset already gives the same byte
// offsets the original got from libxml2's SAX callbacks.
package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"ndb/db"
	"ndb/span"
)

// rootSkip is the byte width of the opening "<dblp>" tag: record spans
// start counting right after it, since the root element itself is
// never a record.
const rootSkip = 6

// Run walks the XML file at path, inserting every author/title key it
// finds into database.
func Run(path string, database *db.Database) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	if err := database.BindSource(path); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	dec := xml.NewDecoder(f)
	depth := 0
	var authors, titles []string
	var field string
	var text strings.Builder
	recordStart := int64(rootSkip)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "author":
				field = "author"
				text.Reset()
			case "title":
				field = "title"
				text.Reset()
			}
		case xml.CharData:
			if field != "" {
				text.Write(t)
			}
		case xml.EndElement:
			name := t.Name.Local
			switch {
			case name == "author" && field == "author":
				authors = append(authors, splitFields(text.String())...)
				field = ""
			case name == "title" && field == "title":
				titles = append(titles, splitFields(text.String())...)
				field = ""
			}
			depth--
			if depth == 1 {
				end := dec.InputOffset()
				length := uint32(end - recordStart)
				s := span.Span{Pos: uint32(recordStart), Len: length}
				for _, a := range authors {
					if err := database.Insert(s, a, db.Author); err != nil {
						return fmt.Errorf("ingest: insert author %q: %w", a, err)
					}
				}
				for _, ti := range titles {
					if err := database.Insert(s, ti, db.Title); err != nil {
						return fmt.Errorf("ingest: insert title %q: %w", ti, err)
					}
				}
				recordStart = end
				authors = authors[:0]
				titles = titles[:0]
			}
		}
	}
	return nil
}

// splitFields splits a raw author/title field on " - " or "; "
// (whichever occurs first, repeated until exhausted) and truncates
// each resulting piece at the first run of two spaces, matching the
// original's `it.substr(0, it.find("  "))`.
func splitFields(raw string) []string {
	var out []string
	for {
		dash := strings.Index(raw, " - ")
		semi := strings.Index(raw, "; ")
		var cut, width int
		switch {
		case dash < 0 && semi < 0:
			out = append(out, truncateDoubleSpace(raw))
			return out
		case dash < 0:
			cut, width = semi, 2
		case semi < 0:
			cut, width = dash, 3
		case dash < semi:
			cut, width = dash, 3
		default:
			cut, width = semi, 2
		}
		out = append(out, truncateDoubleSpace(raw[:cut]))
		raw = raw[cut+width:]
	}
}

func truncateDoubleSpace(s string) string {
	if i := strings.Index(s, "  "); i >= 0 {
		return s[:i]
	}
	return s
}
