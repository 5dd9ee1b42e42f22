// Package hosted runs the grader inside a hosting platform's autograder
// container: submissions arrive in a drop directory, the part identifier
// arrives via the environment, and the outcome leaves as a JSON feedback
// payload. Every run emits exactly one payload, even when the submission is
// missing or unreadable.
package hosted

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mind-engage/sheetgrader/internal/grader"
)

// Grader grades one submission file.
type Grader interface {
	GradeFile(path string) grader.Result
}

// Autograder wires the platform contract around a Grader.
type Autograder struct {
	PartID  string // expected assignment part identifier
	DropDir string // where the platform places the submission
	WorkDir string // scratch dir the submission is copied into
	Grader  Grader
	Sink    Sink
}

// Run grades the submission for partID and delivers feedback. It returns an
// error only when feedback itself could not be delivered.
func (a *Autograder) Run(partID string) error {
	if partID != a.PartID {
		log.Printf("part id mismatch: got %q want %q", partID, a.PartID)
		return a.Sink.Send(Feedback{
			FractionalScore: 0,
			Feedback:        "Please verify that you have submitted to the proper part of the assignment.",
		})
	}

	src, err := a.findSubmission()
	if err != nil {
		log.Printf("submission discovery: %v", err)
		return a.Sink.Send(Feedback{
			FractionalScore: 0,
			Feedback:        "Your submission file does not have the right file extension. Please submit an Excel file (.xlsx, .xlsm).",
		})
	}

	dst := filepath.Join(a.WorkDir, "submission"+strings.ToLower(filepath.Ext(src)))
	if err := copyFile(src, dst); err != nil {
		log.Printf("copy submission: %v", err)
		return a.Sink.Send(Feedback{
			FractionalScore: 0,
			Feedback:        "Error processing your submission file.",
		})
	}

	res := a.Grader.GradeFile(dst)
	if res.Err != nil {
		log.Printf("grading %s: %v", dst, res.Err)
	}
	return a.Sink.Send(Feedback{
		FractionalScore: res.Score / 100,
		Feedback:        res.Feedback,
	})
}

// findSubmission returns the first spreadsheet file in the drop directory.
func (a *Autograder) findSubmission() (string, error) {
	entries, err := os.ReadDir(a.DropDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".xlsm":
			return filepath.Join(a.DropDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no spreadsheet in %s", a.DropDir)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
