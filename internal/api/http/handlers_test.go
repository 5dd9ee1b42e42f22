package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/rbac"
	"github.com/mind-engage/sheetgrader/internal/storage"
	"github.com/mind-engage/sheetgrader/internal/store"
)

/* ---------------- fakes ---------------- */

type fakeStore struct {
	results map[string]store.GradingResult
	seq     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{results: map[string]store.GradingResult{}}
}

func (s *fakeStore) SaveResult(_ context.Context, r store.GradingResult) (store.GradingResult, error) {
	if r.ID == "" {
		s.seq++
		r.ID = fmt.Sprintf("res-%d", s.seq)
	}
	s.results[r.ID] = r
	return r, nil
}

func (s *fakeStore) GetResult(_ context.Context, id string) (store.GradingResult, error) {
	r, ok := s.results[id]
	if !ok {
		return store.GradingResult{}, store.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) ListResults(_ context.Context, opts store.ListOpts) ([]store.GradingResult, error) {
	var out []store.GradingResult
	for _, r := range s.results {
		if opts.UserID != "" && r.UserID != opts.UserID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeGrader struct{ res grader.Result }

func (g fakeGrader) GradeFile(string) grader.Result { return g.res }

func authedReq(r *http.Request, sub, role string) *http.Request {
	ctx := rbac.WithSubject(r.Context(), sub)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

/* ---------------- tests ---------------- */

func TestSubmitHandlerGradesAndPersists(t *testing.T) {
	st := newFakeStore()
	blobs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res := grader.Result{
		Score:    73.33,
		Feedback: "Your score: 73.33%\nYou correctly matched 2 out of 3 cells.",
		Visible:  grader.CheckResult{Matched: 2, Total: 3},
		Hidden:   grader.CheckResult{Matched: 3, Total: 3},
	}
	h := SubmitHandler(fakeGrader{res: res}, blobs, st)

	body, ctype := multipartBody(t, "work.xlsx", []byte("not parsed by fake"))
	req := httptest.NewRequest(http.MethodPost, "/submissions", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	h(w, authedReq(req, "student1", "submitter"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID       string  `json:"id"`
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Score != 73.33 {
		t.Fatalf("score = %v", resp.Score)
	}
	// Submitter response carries no hidden counts.
	if bytes.Contains(w.Body.Bytes(), []byte("hidden")) {
		t.Fatalf("submitter response leaks hidden fields: %s", w.Body.String())
	}

	rec, err := st.GetResult(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("persisted result: %v", err)
	}
	if rec.UserID != "student1" || rec.HiddenMatched != 3 {
		t.Fatalf("persisted = %+v", rec)
	}
}

func TestSubmitHandlerUnreadableUploadStillScores(t *testing.T) {
	st := newFakeStore()
	blobs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res := grader.Result{
		Score:    0,
		Feedback: "Error: your submission could not be read. Please submit a valid Excel file (.xlsx, .xlsm).",
		Err:      fmt.Errorf("load: not a valid spreadsheet"),
	}
	h := SubmitHandler(fakeGrader{res: res}, blobs, st)

	body, ctype := multipartBody(t, "junk.xlsx", []byte("junk"))
	req := httptest.NewRequest(http.MethodPost, "/submissions", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	h(w, authedReq(req, "student1", "submitter"))

	// Grading always yields a result: 200 with score 0, not a server error.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, rec := range st.results {
		if rec.ErrorNote == "" {
			t.Fatalf("expected error note for operators, got %+v", rec)
		}
	}
}

func TestGetResultOwnerAndOperatorViews(t *testing.T) {
	st := newFakeStore()
	saved, _ := st.SaveResult(context.Background(), store.GradingResult{
		UserID:         "student1",
		File:           "work.xlsx",
		Score:          73.33,
		VisibleMatched: 2, VisibleTotal: 3,
		HiddenMatched: 3, HiddenTotal: 3,
		Feedback: "Your score: 73.33%\nYou correctly matched 2 out of 3 cells.",
	})

	r := chi.NewRouter()
	r.Get("/results/{resultID}", GetResultHandler(st))

	get := func(sub, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/results/"+saved.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedReq(req, sub, role))
		return w
	}

	// Owner: score + feedback only.
	w := get("student1", "submitter")
	if w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("hidden")) {
		t.Fatalf("owner view leaks hidden fields: %s", w.Body.String())
	}

	// Another submitter: forbidden.
	if w := get("student2", "submitter"); w.Code != http.StatusForbidden {
		t.Fatalf("other submitter status = %d, want 403", w.Code)
	}

	// Operator: full record.
	w = get("ops", "operator")
	if w.Code != http.StatusOK {
		t.Fatalf("operator status = %d", w.Code)
	}
	var full map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &full); err != nil {
		t.Fatal(err)
	}
	if full["hidden_matched"].(float64) != 3 {
		t.Fatalf("operator view = %v", full)
	}
}

func TestGetResultNotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/results/{resultID}", GetResultHandler(newFakeStore()))

	req := httptest.NewRequest(http.MethodGet, "/results/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedReq(req, "ops", "operator"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListResultsOperatorRows(t *testing.T) {
	st := newFakeStore()
	_, _ = st.SaveResult(context.Background(), store.GradingResult{
		UserID: "student1", File: "ok.xlsx", Score: 100,
	})
	_, _ = st.SaveResult(context.Background(), store.GradingResult{
		UserID: "student2", File: "broken.xlsx", Score: 0,
		ErrorNote: "load broken.xlsx: not a valid spreadsheet",
	})

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	w := httptest.NewRecorder()
	ListResultsHandler(st)(w, authedReq(req, "ops", "operator"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	foundErrored := false
	for _, row := range rows {
		if row["error_note"] != "" {
			foundErrored = true
		}
	}
	if !foundErrored {
		t.Fatalf("errored file not surfaced in operator listing: %v", rows)
	}
}
