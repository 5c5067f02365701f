package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// CSVParser reads pre-extracted lines, one per row, annotated with their
// typography: text, font_size, bold, page. A header row naming those
// columns may reorder them; without one they are taken positionally.
// Missing columns default to BodySize, not bold, and the current page.
type CSVParser struct{}

var csvColumns = []string{"text", "font_size", "bold", "page"}

func (p *CSVParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("parse csv: %w", err))
	}

	cols := map[string]int{"text": 0, "font_size": 1, "bold": 2, "page": 3}
	start := 0
	if len(records) > 0 && isCSVHeader(records[0]) {
		cols = map[string]int{}
		for i, h := range records[0] {
			cols[strings.ToLower(strings.TrimSpace(h))] = i
		}
		if _, ok := cols["text"]; !ok {
			return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, errors.New("csv header has no text column"))
		}
		start = 1
	}

	b := newBuilder(filename)
	for i, rec := range records[start:] {
		row := i + start + 1
		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		size := BodySize
		if s := field("font_size"); s != "" {
			if size, err = strconv.ParseFloat(s, 64); err != nil || size <= 0 {
				return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("row %d: bad font size %q", row, s))
			}
		}
		bold := false
		if s := field("bold"); s != "" {
			if bold, err = strconv.ParseBool(s); err != nil {
				return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("row %d: bad bold flag %q", row, s))
			}
		}
		if s := field("page"); s != "" {
			page, err := strconv.Atoi(s)
			if err != nil || page < b.doc.PageCount {
				return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("row %d: bad page %q", row, s))
			}
			b.onPage(page)
		}
		b.line(field("text"), size, bold)
	}
	return b.document(), nil
}

func isCSVHeader(rec []string) bool {
	for _, cell := range rec {
		name := strings.ToLower(strings.TrimSpace(cell))
		for _, c := range csvColumns {
			if name == c {
				return true
			}
		}
	}
	return false
}
