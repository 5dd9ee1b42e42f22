package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("submitter", "submission:create") {
		t.Fatalf("submitter should create submissions")
	}
	if !c.Has("submitter", "result:view-own") {
		t.Fatalf("submitter should view own results")
	}
	if c.Has("submitter", "result:view-all") {
		t.Fatalf("submitter must not view all results")
	}
	if !c.Has("operator", "result:view-all") {
		t.Fatalf("operator wildcard should cover everything")
	}
	if c.Has("unknown", "submission:create") {
		t.Fatalf("unknown role has no permissions")
	}
}

func TestCheckerWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"ta": {"result:*"}})
	if !c.Has("ta", "result:view-all") {
		t.Fatalf("prefix wildcard should match")
	}
	if c.Has("ta", "submission:create") {
		t.Fatalf("prefix wildcard must not cross resources")
	}
}

func TestRequireMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	h := Require("result:view-all")(ok)

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req.WithContext(WithRole(context.Background(), "operator")))
	if w.Code != http.StatusOK {
		t.Fatalf("operator status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req.WithContext(WithRole(context.Background(), "submitter")))
	if w.Code != http.StatusForbidden {
		t.Fatalf("submitter status = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous status = %d, want 403", w.Code)
	}
}
