package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mind-engage/sheetgrader/internal/grader"
)

// cannedGrader returns fixed results keyed by path, like a solution-bound
// grader would.
func cannedGrader(results map[string]grader.Result) Grader {
	return GraderFunc(func(path string) grader.Result {
		if r, ok := results[path]; ok {
			return r
		}
		return grader.Result{Err: errors.New("unexpected file: " + path), Feedback: "Error: your submission could not be read."}
	})
}

func TestRunPreservesInputOrder(t *testing.T) {
	results := map[string]grader.Result{}
	var files []string
	for i := 0; i < 20; i++ {
		f := fmt.Sprintf("sub-%02d.xlsx", i)
		files = append(files, f)
		results[f] = grader.Result{Score: float64(i)}
	}

	rep := Run(context.Background(), cannedGrader(results), files, 8)

	if len(rep.Files) != len(files) {
		t.Fatalf("got %d rows, want %d", len(rep.Files), len(files))
	}
	for i, r := range rep.Files {
		if r.File != files[i] {
			t.Fatalf("row %d = %s, want %s", i, r.File, files[i])
		}
		if r.Score != float64(i) {
			t.Fatalf("row %d score = %.2f, want %d", i, r.Score, i)
		}
	}
}

func TestRunSummaryWithErroredFile(t *testing.T) {
	// One perfect, one hidden-only credit, one unreadable.
	results := map[string]grader.Result{
		"perfect.xlsx": {Score: 100, Visible: grader.CheckResult{Matched: 3, Total: 3}},
		"zeromatch.xlsx": {Score: 20, Visible: grader.CheckResult{Matched: 0, Total: 3},
			Hidden: grader.CheckResult{Matched: 3, Total: 3}},
		"broken.xlsx": {Score: 0, Err: errors.New("load broken.xlsx: not a valid spreadsheet"),
			Feedback: "Error: your submission could not be read."},
	}
	files := []string{"perfect.xlsx", "zeromatch.xlsx", "broken.xlsx"}

	rep := Run(context.Background(), cannedGrader(results), files, 2)

	s := rep.Summary
	if s.Files != 3 || s.Errored != 1 {
		t.Fatalf("summary = %+v, want 3 files 1 errored", s)
	}
	if s.Min != 0 || s.Max != 100 {
		t.Fatalf("min/max = %.2f/%.2f, want 0/100", s.Min, s.Max)
	}
	if s.Mean != 40 {
		t.Fatalf("mean = %.2f, want 40", s.Mean)
	}
	if rep.Files[2].Err == nil {
		t.Fatalf("expected error marker on broken row")
	}
	if rep.Files[2].Score != 0 {
		t.Fatalf("broken row score = %.2f, want 0", rep.Files[2].Score)
	}
}

func TestRunEmptyInput(t *testing.T) {
	rep := Run(context.Background(), cannedGrader(nil), nil, 4)
	if rep.Summary.Files != 0 || len(rep.Files) != 0 {
		t.Fatalf("expected empty report, got %+v", rep.Summary)
	}
}

func TestListSubmissions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.XLSM", "notes.txt", "c.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListSubmissions(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.XLSM"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "c.xlsx"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v, want %v", files, want)
		}
	}
}
