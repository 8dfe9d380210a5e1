package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(httptest.NewRequest(http.MethodGet, "/no/such/path/123", nil)); got != "unmatched" {
		t.Fatalf("expected unmatched, got %q", got)
	}

	var seen string
	mux := chi.NewRouter()
	mux.Get("/sessions/{id}/summary", func(w http.ResponseWriter, r *http.Request) { seen = routeLabel(r) })
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc/summary", nil))
	if seen != "/sessions/{id}/summary" {
		t.Fatalf("expected route pattern, got %q", seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/whatever", nil)
	rc := chi.NewRouteContext()
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	if got := routeLabel(req); got != "unmatched" {
		t.Fatalf("expected unmatched for empty pattern, got %q", got)
	}
}
