package parser

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/papervox/internal/pack"
)

// HTMLParser handles HTML files. The <title> element stands in for the
// paper title when the body has no <h1>; <hr> starts a new page.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, err)
	}
	b := newBuilder(filename)
	appendHTML(b, doc, true)
	return b.document(), nil
}

// appendHTML writes the readable content of an HTML tree to b. With
// useTitle, a <title> is emitted when the body has no <h1>.
func appendHTML(b *builder, doc *html.Node, useTitle bool) {
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	if useTitle && findElement(root, "h1") == nil {
		if title := findTitle(doc); title != "" {
			b.line(title, TitleSize, true)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				size, bold := HeadingSize(level)
				b.line(textContent(n), size, bold)
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head", "pre", "code":
				return
			case "hr":
				b.pageBreak()
				return
			case "p", "li", "td", "th", "blockquote", "figcaption", "dd", "dt":
				b.line(textContent(n), BodySize, strongOnlyHTML(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// headingLevel returns 1-6 for h1-h6 and 0 for any other tag.
func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// strongOnlyHTML reports whether every visible character of n sits inside
// <b> or <strong>.
func strongOnlyHTML(n *html.Node) bool {
	seen := false
	var check func(*html.Node, bool) bool
	check = func(n *html.Node, strong bool) bool {
		if n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong") {
			strong = true
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			if !strong {
				return false
			}
			seen = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !check(c, strong) {
				return false
			}
		}
		return true
	}
	return check(n, false) && seen
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return textContent(t)
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	return findElement(n, "body")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if e := findElement(c, tag); e != nil {
			return e
		}
	}
	return nil
}
