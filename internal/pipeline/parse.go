package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/parser"
	"github.com/dgallion1/papervox/internal/structure"
)

// Error kinds reported on failed jobs and in parse stats.
const (
	KindUnsupported     = "unsupported_format"
	KindInvalidDocument = "invalid_document"
	KindNoText          = "no_extractable_text"
	KindParsingFailed   = "parsing_failed"
	KindStorage         = "storage_failed"
)

// ErrUnsupportedFormat is returned for files no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// KindOf maps an error from Extract or Assemble to its kind.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupported
	case errors.Is(err, pack.ErrInvalidDocument):
		return KindInvalidDocument
	case errors.Is(err, pack.ErrNoExtractableText):
		return KindNoText
	default:
		return KindParsingFailed
	}
}

// Extract runs the parser for filename over data.
func Extract(filename string, data []byte, opts parser.Options) (*pack.Document, error) {
	p, err := parser.ForFileOptions(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile extracts and structures a file in the calling goroutine. The
// pack's source hash is the file's content hash.
func ParseFile(path string, opts parser.Options, a *structure.Assembler) (*pack.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pack.NewParseError(pack.ErrInvalidDocument, path, err)
	}
	filename := filepath.Base(path)
	doc, err := Extract(filename, data, opts)
	if err != nil {
		return nil, err
	}
	p, _, err := a.Assemble(doc)
	if err != nil {
		return nil, err
	}
	p.Source.Hash = ContentHashHex(data)
	return p, nil
}
