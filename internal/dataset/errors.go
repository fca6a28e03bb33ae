package dataset

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is wrapped by every error caused by the content of an input file.
var ErrMalformedInput = errors.New("malformed input")

// ParseError identifies the file, row and column of a malformed value.
// Row is the 1-based line number in the file, 0 when the error concerns the whole file.
type ParseError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Row, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformedInput }
