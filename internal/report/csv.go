// Package report persists batch grading results for operators and feedback
// text for submitters. The CSV and JSON writers carry the same rows: one per
// input file, with the error column marking files that could not be graded.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mind-engage/sheetgrader/internal/batch"
)

// WriteCSV writes one row per graded file followed by a summary block.
func WriteCSV(w io.Writer, rep batch.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "score", "matched", "total", "error"}); err != nil {
		return err
	}
	for _, r := range rep.Files {
		errNote := ""
		if r.Err != nil {
			errNote = r.Err.Error()
		}
		row := []string{
			r.File,
			fmt.Sprintf("%.2f", r.Score),
			fmt.Sprintf("%d", r.Visible.Matched),
			fmt.Sprintf("%d", r.Visible.Total),
			errNote,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	s := rep.Summary
	summary := [][]string{
		{"files", fmt.Sprintf("%d", s.Files), "", "", ""},
		{"errored", fmt.Sprintf("%d", s.Errored), "", "", ""},
		{"mean", fmt.Sprintf("%.2f", s.Mean), "", "", ""},
		{"min", fmt.Sprintf("%.2f", s.Min), "", "", ""},
		{"max", fmt.Sprintf("%.2f", s.Max), "", "", ""},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to path.
func SaveCSV(path string, rep batch.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, rep)
}
