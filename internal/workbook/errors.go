package workbook

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the spreadsheet file does not exist.
var ErrNotFound = errors.New("file not found")

// ErrBadFormat indicates the file could not be parsed as a spreadsheet.
var ErrBadFormat = errors.New("not a valid spreadsheet")

// ErrMissingSheet indicates a required named sheet is absent.
var ErrMissingSheet = errors.New("required sheet missing")

// LoadError wraps a load failure with the file (and sheet) it concerns.
type LoadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("load %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
