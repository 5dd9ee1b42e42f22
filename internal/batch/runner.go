// Package batch grades many submission files concurrently. Each file's
// grading is independent and read-only on the shared solution workbook, so
// the pool needs no locking; results are written into a slice indexed by
// input position so report order always matches input order.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/sheetgrader/internal/grader"
)

// Grader grades one submission file. *grader.Bound satisfies this.
type Grader interface {
	GradeFile(path string) grader.Result
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(path string) grader.Result

func (f GraderFunc) GradeFile(path string) grader.Result { return f(path) }

// FileResult pairs a graded submission with its input path.
type FileResult struct {
	File string
	grader.Result
}

// Summary aggregates a batch run. Errored files score 0 and are included in
// the statistics so a bad file shows up rather than silently dropping out.
type Summary struct {
	Files   int     `json:"files"`
	Errored int     `json:"errored"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Report is the full outcome of a batch run, in input order.
type Report struct {
	Files   []FileResult
	Summary Summary
}

const DefaultWorkers = 4

// Run grades files with a bounded worker pool.
func Run(ctx context.Context, g Grader, files []string, workers int) Report {
	if workers < 1 {
		workers = DefaultWorkers
	}
	results := make([]FileResult, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = FileResult{File: f, Result: grader.Result{Err: ctx.Err(), Feedback: "grading cancelled"}}
				return nil
			default:
			}
			results[i] = FileResult{File: f, Result: g.GradeFile(f)}
			return nil
		})
	}
	_ = eg.Wait()

	return Report{Files: results, Summary: summarize(results)}
}

func summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	if len(results) == 0 {
		return s
	}
	s.Min = results[0].Score
	sum := 0.0
	for _, r := range results {
		if r.Err != nil {
			s.Errored++
		}
		sum += r.Score
		if r.Score < s.Min {
			s.Min = r.Score
		}
		if r.Score > s.Max {
			s.Max = r.Score
		}
	}
	s.Mean = sum / float64(len(results))
	return s
}

// ListSubmissions returns the spreadsheet files directly under dir, sorted by
// name for a stable report order.
func ListSubmissions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".xlsm":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
