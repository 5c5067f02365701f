package parser

import (
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// Synthetic typography for formats that carry structure in markup rather
// than fonts. The sizes are chosen so the structuring heuristics treat a
// level-1 heading on the first page as the title and deeper levels as
// section headings.
const (
	BodySize  = 10.0
	TitleSize = 18.0
)

// HeadingSize returns the size and weight used for a heading level.
func HeadingSize(level int) (float64, bool) {
	switch level {
	case 1:
		return TitleSize, true
	case 2:
		return 13, true
	case 3:
		return 12, true
	default:
		return 11, true
	}
}

// builder accumulates lines into pages. It always holds at least one page.
type builder struct {
	doc *pack.Document
}

func newBuilder(filename string) *builder {
	return &builder{doc: &pack.Document{
		Filename:  filename,
		PageCount: 1,
		Pages:     [][]pack.Line{nil},
	}}
}

// line adds text, one pack.Line per non-empty source line.
func (b *builder) line(text string, size float64, bold bool) {
	page := b.doc.PageCount
	for _, l := range strings.Split(text, "\n") {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			continue
		}
		b.doc.Pages[page-1] = append(b.doc.Pages[page-1], pack.Line{
			Text:     l,
			FontSize: size,
			Bold:     bold,
			Page:     page,
		})
	}
}

func (b *builder) body(text string) { b.line(text, BodySize, false) }

// pageBreak starts a new page unless the current one is still empty.
func (b *builder) pageBreak() {
	if len(b.doc.Pages[b.doc.PageCount-1]) == 0 {
		return
	}
	b.doc.Pages = append(b.doc.Pages, nil)
	b.doc.PageCount++
}

// onPage moves to page n, adding empty pages as needed. n never moves
// backwards.
func (b *builder) onPage(n int) {
	for b.doc.PageCount < n {
		b.doc.Pages = append(b.doc.Pages, nil)
		b.doc.PageCount++
	}
}

func (b *builder) document() *pack.Document {
	return b.doc
}
