package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"

	"github.com/dgallion1/papervox/internal/pack"
)

// EPUBParser handles EPUB books. Each spine item becomes a page and its
// XHTML is read the same way as HTMLParser reads a page.
type EPUBParser struct{}

func (p *EPUBParser) Parse(r io.Reader, filename string) (*pack.Document, error) {
	// goreader opens by path.
	tmp, err := os.CreateTemp("", "papervox-epub-*.epub")
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

	rc, err := epub.OpenReader(tmpPath)
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, fmt.Errorf("open epub: %w", err))
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, filename, errors.New("no rootfiles found in epub"))
	}

	book := rc.Rootfiles[0]
	b := newBuilder(filename)
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		item, err := ref.Item.Open()
		if err != nil {
			continue
		}
		doc, err := html.Parse(item)
		item.Close()
		if err != nil {
			continue
		}
		b.pageBreak()
		appendHTML(b, doc, false)
	}
	return b.document(), nil
}
