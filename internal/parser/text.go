package parser

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/structure"
)

const maxTextTitleRunes = 150

var plainRules = structure.DefaultRules()

// TextParser handles plain text files. Blank lines separate paragraphs and
// form feeds separate pages. A leading one-line paragraph is set as the
// title; one-line paragraphs that read as section headings are set bold.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, err)
	}
	return textDocument(filename, lines), nil
}

func plainTextDocument(filename, text string) *pack.Document {
	return textDocument(filename, strings.Split(text, "\n"))
}

func textDocument(filename string, lines []string) *pack.Document {
	b := newBuilder(filename)
	var (
		para  []string
		first = true
	)
	flush := func() {
		if len(para) == 0 {
			return
		}
		single := strings.TrimSpace(para[0])
		switch {
		case len(para) == 1 && isPlainHeading(single):
			b.line(single, BodySize, true)
		case len(para) == 1 && first && utf8.RuneCountInString(single) <= maxTextTitleRunes:
			b.line(single, TitleSize, true)
		default:
			b.body(strings.Join(para, "\n"))
		}
		first = false
		para = para[:0]
	}

	for _, raw := range lines {
		for i, part := range strings.Split(raw, "\f") {
			if i > 0 {
				flush()
				b.pageBreak()
			}
			if strings.TrimSpace(part) == "" {
				flush()
				continue
			}
			para = append(para, part)
		}
	}
	flush()
	return b.document()
}

// isPlainHeading reports whether a lone line is a canonical section name or
// a numbered heading.
func isPlainHeading(text string) bool {
	if utf8.RuneCountInString(text) >= plainRules.MaxHeadingRunes || strings.HasSuffix(text, ".") {
		return false
	}
	lower := strings.ToLower(text)
	for _, s := range plainRules.Sections {
		if s.Pattern.MatchString(lower) {
			return true
		}
	}
	return plainRules.NumberedHeading.MatchString(text)
}
