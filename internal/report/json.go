package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mind-engage/sheetgrader/internal/batch"
)

type jsonRow struct {
	File    string  `json:"file"`
	Score   float64 `json:"score"`
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Error   string  `json:"error,omitempty"`
}

type jsonReport struct {
	Files   []jsonRow     `json:"files"`
	Summary batch.Summary `json:"summary"`
}

// WriteJSON writes the machine-readable form of the report.
func WriteJSON(w io.Writer, rep batch.Report) error {
	out := jsonReport{
		Files:   make([]jsonRow, 0, len(rep.Files)),
		Summary: rep.Summary,
	}
	for _, r := range rep.Files {
		row := jsonRow{
			File:    r.File,
			Score:   r.Score,
			Matched: r.Visible.Matched,
			Total:   r.Visible.Total,
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		out.Files = append(out.Files, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// SaveJSON writes the report to path.
func SaveJSON(path string, rep batch.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, rep)
}

// SaveFeedback persists the submitter-visible feedback text.
func SaveFeedback(path, feedback string) error {
	return os.WriteFile(path, []byte(feedback+"\n"), 0o644)
}
