// Package http exposes the grading service API. Submitters upload a
// spreadsheet and get back exactly one (score, feedback) pair; operators can
// additionally see hidden-criterion counts and per-file error notes.
package http

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/rbac"
	"github.com/mind-engage/sheetgrader/internal/storage"
	"github.com/mind-engage/sheetgrader/internal/store"
)

// Grader grades one submission file.
type Grader interface {
	GradeFile(path string) grader.Result
}

const maxUploadBytes = 32 << 20

type submitResp struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// POST /submissions — multipart form with a "file" field.
// Grading always yields a result: an unreadable upload is a 200 with score 0
// and explanatory feedback, not a server error.
func SubmitHandler(g Grader, blobs storage.BlobStore, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		ext := strings.ToLower(filepath.Ext(hdr.Filename))
		key := "submissions/" + uuid.NewString() + ext
		if _, err := blobs.Put(key, f); err != nil {
			http.Error(w, "store upload: "+err.Error(), http.StatusInternalServerError)
			return
		}

		res := g.GradeFile(blobs.Path(key))
		rec := store.GradingResult{
			UserID:         rbac.SubjectFromContext(r.Context()),
			File:           hdr.Filename,
			Score:          res.Score,
			VisibleMatched: res.Visible.Matched,
			VisibleTotal:   res.Visible.Total,
			HiddenMatched:  res.Hidden.Matched,
			HiddenTotal:    res.Hidden.Total,
			Feedback:       res.Feedback,
		}
		if res.Err != nil {
			rec.ErrorNote = res.Err.Error()
		}
		rec, err = st.SaveResult(r.Context(), rec)
		if err != nil {
			http.Error(w, "save result: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, submitResp{ID: rec.ID, Score: rec.Score, Feedback: rec.Feedback})
	}
}

// GET /results/{resultID} — owner sees score+feedback; operators see the full
// record including hidden counts and error notes.
func GetResultHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "resultID"))
		if id == "" {
			http.Error(w, "resultID required", http.StatusBadRequest)
			return
		}
		rec, err := st.GetResult(r.Context(), id)
		if err == store.ErrNotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "get result: "+err.Error(), http.StatusInternalServerError)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if role == "operator" {
			writeJSON(w, operatorView(rec))
			return
		}
		if rec.UserID != rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, submitResp{ID: rec.ID, Score: rec.Score, Feedback: rec.Feedback})
	}
}

// GET /results — operator-only listing (mounted behind rbac.Require).
func ListResultsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := store.ListOpts{UserID: r.URL.Query().Get("user")}
		recs, err := st.ListResults(r.Context(), opts)
		if err != nil {
			http.Error(w, "list results: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]map[string]interface{}, 0, len(recs))
		for _, rec := range recs {
			out = append(out, operatorView(rec))
		}
		writeJSON(w, out)
	}
}

func operatorView(rec store.GradingResult) map[string]interface{} {
	return map[string]interface{}{
		"id":              rec.ID,
		"user_id":         rec.UserID,
		"file":            rec.File,
		"score":           rec.Score,
		"visible_matched": rec.VisibleMatched,
		"visible_total":   rec.VisibleTotal,
		"hidden_matched":  rec.HiddenMatched,
		"hidden_total":    rec.HiddenTotal,
		"feedback":        rec.Feedback,
		"error_note":      rec.ErrorNote,
		"created_at":      rec.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
