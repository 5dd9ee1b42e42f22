// Package workbook loads spreadsheet files and exposes read-only cell access
// for grading. Submissions and solutions are plain xlsx workbooks with
// well-known sheet names.
package workbook

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required sheet names. A submission carries the student's work on
// SubmissionSheet; the solution file carries the answer key on SolutionSheet
// (its own SubmissionSheet copy is the blank handout and is not graded).
const (
	SubmissionSheet = "blank"
	SolutionSheet   = "solution"
)

// Workbook is an open spreadsheet file. It is read-only for grading purposes;
// a solution workbook shared across a batch run must never be mutated.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens the spreadsheet at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Path: path, Err: ErrNotFound}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrBadFormat, err)}
	}
	return &Workbook{f: f, path: path}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) Path() string { return w.path }

// Sheet returns the named sheet, or a LoadError wrapping ErrMissingSheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, &LoadError{Path: w.path, Sheet: name, Err: ErrMissingSheet}
	}
	return &Sheet{f: w.f, name: name}, nil
}

// Sheet is a single worksheet within an open workbook.
type Sheet struct {
	f    *excelize.File
	name string
}

func (s *Sheet) Name() string { return s.name }

// Cell returns the formatted value at an A1-style address. Absent cells read
// as the empty string.
func (s *Sheet) Cell(addr string) (string, error) {
	v, err := s.f.GetCellValue(s.name, addr)
	if err != nil {
		return "", fmt.Errorf("cell %s!%s: %w", s.name, addr, err)
	}
	return v, nil
}

// CellAt returns the value at 1-based (row, col) coordinates.
func (s *Sheet) CellAt(row, col int) (string, error) {
	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	return s.Cell(addr)
}

// LastPopulatedCol returns the 1-based column of the last non-blank cell in
// the given row, or 0 if the row has no populated cells.
func (s *Sheet) LastPopulatedCol(row int) (int, error) {
	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return 0, fmt.Errorf("rows of %s: %w", s.name, err)
	}
	if row < 1 || row > len(rows) {
		return 0, nil
	}
	cells := rows[row-1]
	for i := len(cells) - 1; i >= 0; i-- {
		if strings.TrimSpace(cells[i]) != "" {
			return i + 1, nil
		}
	}
	return 0, nil
}
