package parser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/papervox/internal/pack"
)

const (
	// rowTolerance is how far apart (in points) two glyph baselines may be
	// and still belong to the same printed row.
	rowTolerance = 2.5
	// sizeTolerance splits a row when the font size changes by more.
	sizeTolerance = 0.5
	// wordGapRatio of the font size is the gap that counts as a space.
	wordGapRatio = 0.25
)

// PDFParser handles PDF files. It reads glyph runs with the Go library and,
// when enabled, falls back to pdftotext for documents it cannot read. The
// fallback has no typography, so every line comes back at BodySize.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "papervox-pdf-*.pdf")
	if err != nil {
		return nil, pack.NewParseError(pack.ErrParsingFailed, filename, fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("write temp file: %w", err))
	}
	tmp.Close()

	doc, err := extractPDFLines(tmpPath, filename)
	if p.FallbackPdftotext && (err != nil || !hasLines(doc)) {
		if text, ferr := extractPdftotext(tmpPath); ferr == nil {
			return plainTextDocument(filename, text), nil
		}
	}
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, err)
	}
	return doc, nil
}

func extractPDFLines(path, filename string) (doc *pack.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("read pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, errors.New("pdf has no pages")
	}
	doc = &pack.Document{
		Filename:  filename,
		PageCount: numPages,
		Pages:     make([][]pack.Line, numPages),
	}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts, ok := pageTexts(page)
		if !ok {
			continue
		}
		doc.Pages[i-1] = glyphLines(texts, i)
	}
	return doc, nil
}

// pageTexts reads the positioned glyphs of a page. Malformed content
// streams make the library panic; such pages are skipped.
func pageTexts(page pdflib.Page) (texts []pdflib.Text, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			texts, ok = nil, false
		}
	}()
	return page.Content().Text, true
}

type glyphRow struct {
	y      float64
	glyphs []pdflib.Text
}

// glyphLines groups positioned glyphs into printed rows, top to bottom,
// then splits each row into lines wherever the font size or weight
// changes.
func glyphLines(texts []pdflib.Text, page int) []pack.Line {
	var glyphs []pdflib.Text
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})

	var rows []*glyphRow
	for _, g := range glyphs {
		if n := len(rows); n > 0 && math.Abs(rows[n-1].y-g.Y) <= rowTolerance {
			rows[n-1].glyphs = append(rows[n-1].glyphs, g)
			continue
		}
		rows = append(rows, &glyphRow{y: g.Y, glyphs: []pdflib.Text{g}})
	}

	var lines []pack.Line
	for _, row := range rows {
		sort.SliceStable(row.glyphs, func(i, j int) bool {
			return row.glyphs[i].X < row.glyphs[j].X
		})
		lines = append(lines, splitRow(row.glyphs, page)...)
	}
	return lines
}

func splitRow(glyphs []pdflib.Text, page int) []pack.Line {
	var (
		lines   []pack.Line
		buf     strings.Builder
		size    float64
		bold    bool
		prevEnd float64
	)
	flush := func() {
		text := strings.Join(strings.Fields(buf.String()), " ")
		if text != "" {
			lines = append(lines, pack.Line{Text: text, FontSize: size, Bold: bold, Page: page})
		}
		buf.Reset()
	}

	for i, g := range glyphs {
		gBold := isBoldFont(g.Font)
		if i > 0 && (math.Abs(g.FontSize-size) > sizeTolerance || gBold != bold) {
			flush()
		}
		if buf.Len() == 0 {
			size, bold = g.FontSize, gBold
		} else if g.X-prevEnd > wordGapRatio*g.FontSize && !strings.HasSuffix(buf.String(), " ") {
			buf.WriteByte(' ')
		}
		buf.WriteString(g.S)
		prevEnd = g.X + g.W
	}
	flush()
	return lines
}

func isBoldFont(font string) bool {
	f := strings.ToLower(font)
	return strings.Contains(f, "bold") || strings.Contains(f, "heavy") || strings.Contains(f, "black")
}

func hasLines(doc *pack.Document) bool {
	if doc == nil {
		return false
	}
	for _, p := range doc.Pages {
		if len(p) > 0 {
			return true
		}
	}
	return false
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
