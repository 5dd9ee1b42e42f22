package grader

import "github.com/mind-engage/sheetgrader/internal/workbook"

// Solution is the instructor-provided reference workbook, opened once per
// run. The answer key lives on the "solution" sheet; the solution file's
// "blank" sheet is the student handout and is not consulted.
type Solution struct {
	wb    *workbook.Workbook
	sheet *workbook.Sheet
}

// OpenSolution opens the reference workbook and resolves its answer-key
// sheet. Failures here are operator errors, not submitter errors.
func OpenSolution(path string) (*Solution, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	sheet, err := wb.Sheet(workbook.SolutionSheet)
	if err != nil {
		wb.Close()
		return nil, err
	}
	return &Solution{wb: wb, sheet: sheet}, nil
}

func (s *Solution) Sheet() *workbook.Sheet { return s.sheet }

func (s *Solution) Close() error { return s.wb.Close() }
