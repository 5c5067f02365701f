package pack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument means the source could not be opened or has no pages.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrNoExtractableText means the document opened but yielded no text.
	ErrNoExtractableText = errors.New("no extractable text")
	// ErrParsingFailed covers any other failure while structuring.
	ErrParsingFailed = errors.New("parsing failed")
)

// ParseError wraps one of the sentinel kinds with the file and the cause.
type ParseError struct {
	Kind     error
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Filename, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Filename, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewParseError builds a ParseError. kind should be one of the sentinels above.
func NewParseError(kind error, filename string, err error) *ParseError {
	return &ParseError{Kind: kind, Filename: filename, Err: err}
}

// ErrorKind returns the sentinel carried by err, or ErrParsingFailed when
// err is not a ParseError.
func ErrorKind(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrParsingFailed
}
