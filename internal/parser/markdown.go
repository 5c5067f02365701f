package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/papervox/internal/pack"
)

// MarkdownParser handles Markdown files using goldmark. Headings map to
// HeadingSize, thematic breaks start a new page and code blocks are
// skipped.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, err)
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	b := newBuilder(filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			size, bold := HeadingSize(node.Level)
			b.line(string(node.Text(src)), size, bold)
		case *ast.ThematicBreak:
			b.pageBreak()
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		case *ast.Paragraph:
			b.line(extractText(n, src), BodySize, strongOnly(node))
		default:
			b.body(extractText(n, src))
		}
	}
	return b.document(), nil
}

// strongOnly reports whether a paragraph is a single **strong** span.
func strongOnly(p *ast.Paragraph) bool {
	em, ok := p.FirstChild().(*ast.Emphasis)
	return ok && em.Level == 2 && em.NextSibling() == nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		buf.WriteString(extractText(c, src))
		if c.Type() == ast.TypeBlock {
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String())
}
