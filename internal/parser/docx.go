package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/papervox/internal/pack"
)

// DOCXParser handles .docx files. Heading styles map to HeadingSize and
// the Title style is set as a level-1 heading.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "papervox-docx-*.docx")
	if err != nil {
		return nil, pack.NewParseError(pack.ErrParsingFailed, filename, fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("write temp file: %w", err))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, pack.NewParseError(pack.ErrParsingFailed, filename, fmt.Errorf("seek temp file: %w", err))
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("parse docx: %w", err))
	}

	b := newBuilder(filename)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			size, bold := HeadingSize(level)
			b.line(text, size, bold)
			continue
		}
		b.body(text)
	}
	return b.document(), nil
}

// docxHeadingLevel reads "Heading1".."Heading6" (or "heading 2" as some
// writers spell it) and "Title" from the paragraph style.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	n, ok := strings.CutPrefix(style, "heading")
	if !ok || len(n) != 1 || n[0] < '1' || n[0] > '6' {
		return 0
	}
	return int(n[0] - '0')
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
