// Package grader scores a spreadsheet submission against a reference
// solution. The score combines a visible criterion (a row of flag cells the
// student can see reflected in their feedback) with a small set of hidden
// cell checks that are never disclosed to submitters.
package grader

import (
	"errors"
	"fmt"
	"math"

	"github.com/mind-engage/sheetgrader/internal/workbook"
)

// Criteria fixes the cell addresses and weights used for scoring. Hidden
// addresses are deployment configuration, never read from the submission.
type Criteria struct {
	VisibleRow      int      // row holding the flag cells (1-based)
	VisibleStartCol int      // first graded column in that row (1-based)
	HiddenCells     []string // A1-style addresses checked silently
	VisibleWeight   float64
	HiddenWeight    float64
}

// DefaultCriteria returns the assignment defaults: row 1 from column E,
// three hidden checks, 80/20 weighting.
func DefaultCriteria() Criteria {
	return Criteria{
		VisibleRow:      1,
		VisibleStartCol: 5,
		HiddenCells:     []string{"AD21", "M62", "AE187"},
		VisibleWeight:   0.8,
		HiddenWeight:    0.2,
	}
}

func (c Criteria) Validate() error {
	if c.VisibleRow < 1 || c.VisibleStartCol < 1 {
		return errors.New("visible row and start column must be >= 1")
	}
	if len(c.HiddenCells) == 0 {
		return errors.New("at least one hidden cell required")
	}
	if math.Abs(c.VisibleWeight+c.HiddenWeight-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %.4f", c.VisibleWeight+c.HiddenWeight)
	}
	return nil
}

// CheckResult counts matches for one criterion set.
type CheckResult struct {
	Matched int
	Total   int
}

// Fraction returns Matched/Total, degrading to 0 when nothing was inspected.
func (r CheckResult) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.Total)
}

// Result is the outcome of grading a single submission. Grading always
// yields a result; a submission that cannot be read gets score 0 with an
// explanatory feedback string and Err set for operator reports.
type Result struct {
	Score    float64 // percentage in [0, 100]
	Feedback string  // submitter-visible: score + visible match counts only
	Visible  CheckResult
	Hidden   CheckResult
	Err      error // load failure, if any; never shown to submitters
}

// Grader applies one Criteria to submissions.
type Grader struct {
	crit Criteria
}

func New(crit Criteria) (*Grader, error) {
	if err := crit.Validate(); err != nil {
		return nil, fmt.Errorf("criteria: %w", err)
	}
	return &Grader{crit: crit}, nil
}

func (g *Grader) Criteria() Criteria { return g.crit }

// CompareVisible walks the visible row from the start column through the last
// column populated in the solution. The total is driven by the solution's
// extent only, so extra or missing trailing cells in the submission cannot
// change how many columns are inspected.
func (g *Grader) CompareVisible(sub, sol *workbook.Sheet) (CheckResult, error) {
	last, err := sol.LastPopulatedCol(g.crit.VisibleRow)
	if err != nil {
		return CheckResult{}, err
	}
	var res CheckResult
	for col := g.crit.VisibleStartCol; col <= last; col++ {
		sv, err := sub.CellAt(g.crit.VisibleRow, col)
		if err != nil {
			return res, err
		}
		ov, err := sol.CellAt(g.crit.VisibleRow, col)
		if err != nil {
			return res, err
		}
		res.Total++
		if equalValues(sv, ov) {
			res.Matched++
		}
	}
	return res, nil
}

// CompareHidden checks each fixed hidden address. Total is always the number
// of configured hidden cells, regardless of submission content.
func (g *Grader) CompareHidden(sub, sol *workbook.Sheet) (CheckResult, error) {
	var res CheckResult
	for _, addr := range g.crit.HiddenCells {
		sv, err := sub.Cell(addr)
		if err != nil {
			return res, err
		}
		ov, err := sol.Cell(addr)
		if err != nil {
			return res, err
		}
		res.Total++
		if equalValues(sv, ov) {
			res.Matched++
		}
	}
	return res, nil
}

// Score combines the two criteria into a weighted percentage, clamped to
// [0, 100]. A zero-total visible result contributes 0 rather than faulting.
func (g *Grader) Score(visible, hidden CheckResult) float64 {
	s := (visible.Fraction()*g.crit.VisibleWeight + hidden.Fraction()*g.crit.HiddenWeight) * 100
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Feedback renders the submitter-visible feedback. Only the visible criterion
// is interpolated; hidden results stay hidden.
func (g *Grader) Feedback(visible CheckResult, score float64) string {
	return fmt.Sprintf("Your score: %.2f%%\nYou correctly matched %d out of %d cells.",
		score, visible.Matched, visible.Total)
}

// GradeSheets grades an already-open submission sheet against the solution
// sheet.
func (g *Grader) GradeSheets(sub, sol *workbook.Sheet) (Result, error) {
	visible, err := g.CompareVisible(sub, sol)
	if err != nil {
		return Result{}, err
	}
	hidden, err := g.CompareHidden(sub, sol)
	if err != nil {
		return Result{}, err
	}
	score := g.Score(visible, hidden)
	return Result{
		Score:    score,
		Feedback: g.Feedback(visible, score),
		Visible:  visible,
		Hidden:   hidden,
	}, nil
}

// GradeFile grades the submission file at path against sol. It never returns
// an error: load failures are downgraded to a zero score with an explanatory
// feedback string so that one bad file cannot abort a batch run.
func (g *Grader) GradeFile(path string, sol *Solution) Result {
	wb, err := workbook.Open(path)
	if err != nil {
		return g.failed(err, "Error: your submission could not be read. Please submit a valid Excel file (.xlsx, .xlsm).")
	}
	defer wb.Close()

	sheet, err := wb.Sheet(workbook.SubmissionSheet)
	if err != nil {
		return g.failed(err, fmt.Sprintf("Error: worksheet %q not found in your submission.", workbook.SubmissionSheet))
	}
	res, err := g.GradeSheets(sheet, sol.Sheet())
	if err != nil {
		return g.failed(err, "Error grading your submission.")
	}
	return res
}

func (g *Grader) failed(err error, feedback string) Result {
	return Result{
		Score:    0,
		Feedback: feedback,
		Err:      err,
	}
}

// Bound couples a Grader with an open solution so callers can grade by
// submission path alone. The solution workbook is opened once and treated as
// immutable, which makes a Bound safe for concurrent use across a batch.
type Bound struct {
	g   *Grader
	sol *Solution
}

func (g *Grader) Bind(sol *Solution) *Bound {
	return &Bound{g: g, sol: sol}
}

func (b *Bound) GradeFile(path string) Result {
	return b.g.GradeFile(path, b.sol)
}
