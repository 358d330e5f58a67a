package ui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArchiveServesFigures(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	if err := os.WriteFile(filepath.Join(dir, "fig1.svg"), []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewArchiveApp(dir)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	a.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/fig1.svg", nil)
	a.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("figure status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("figure content not served")
	}
}
