package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/papervox/internal/pack"
)

// Parser converts raw document bytes into lines annotated with font size,
// weight and page. Formats without real typography synthesize sizes from
// their markup (see BodySize and HeadingSize).
type Parser interface {
	Parse(r io.Reader, filename string) (*pack.Document, error)
}

// Options tunes the parsers returned by ForFileOptions.
type Options struct {
	// PDFFallbackPdftotext retries with the pdftotext binary when the Go
	// PDF reader fails or finds no text.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".pdf":      true,
	".docx":     true,
	".epub":     true,
}

// ForFile returns the parser for a filename with default options.
func ForFile(filename string) (Parser, error) {
	return ForFileOptions(filename, Options{})
}

// ForFileOptions returns the parser for a filename.
func ForFileOptions(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".epub":
		return &EPUBParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
