package structure

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/google/uuid"
)

// Assembler runs the structuring stages over an extracted document.
type Assembler struct {
	Rules *Rules
	NewID func() string
	Now   func() time.Time
}

// NewAssembler returns an Assembler with the default rules.
func NewAssembler() *Assembler {
	return &Assembler{Rules: DefaultRules()}
}

// Stats reports intermediate counts from one assembly.
type Stats struct {
	BodyFontSize float64 `json:"body_font_size"`
	Lines        int     `json:"lines"`
	Paragraphs   int     `json:"paragraphs"`
	Headings     int     `json:"headings"`
}

// Assemble builds a pack from doc. Failures are *pack.ParseError values
// carrying pack.ErrInvalidDocument, pack.ErrNoExtractableText or
// pack.ErrParsingFailed.
func (a *Assembler) Assemble(doc *pack.Document) (p *pack.Pack, st Stats, err error) {
	if doc == nil {
		return nil, st, pack.NewParseError(pack.ErrInvalidDocument, "", errors.New("nil document"))
	}
	if doc.PageCount <= 0 || len(doc.Pages) == 0 {
		return nil, st, pack.NewParseError(pack.ErrInvalidDocument, doc.Filename, errors.New("document has no pages"))
	}

	lines := nonEmpty(doc.Lines())
	if len(lines) == 0 {
		return nil, st, pack.NewParseError(pack.ErrNoExtractableText, doc.Filename, nil)
	}

	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = pack.NewParseError(pack.ErrParsingFailed, doc.Filename, fmt.Errorf("panic: %v", rec))
		}
	}()

	rules := a.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	body := BodyFontSize(lines, rules.DefaultBodySize)
	paragraphs := Merge(lines, body, rules)
	meta := ExtractMeta(paragraphs, body, rules)
	seg := Segment(paragraphs, rules)

	st = Stats{BodyFontSize: body, Lines: len(lines), Paragraphs: len(paragraphs)}
	for _, para := range paragraphs {
		if para.Heading {
			st.Headings++
		}
	}

	p = &pack.Pack{
		ID:        a.newID(),
		Meta:      meta,
		Sections:  nonNil(seg.Sections),
		Sentences: nonNil(seg.Sentences),
		Figures:   ExtractFigures(paragraphs),
		Source:    pack.Source{Filename: doc.Filename, Pages: doc.PageCount},
		CreatedAt: a.now(),
	}
	if err := pack.Validate(p); err != nil {
		return nil, st, pack.NewParseError(pack.ErrParsingFailed, doc.Filename, err)
	}
	return p, st, nil
}

func (a *Assembler) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func nonEmpty(lines []pack.Line) []pack.Line {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l.Text) != "" {
			out = append(out, l)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
