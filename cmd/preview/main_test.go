package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vidarchive/mcp-server/internal/site"
)

func newTestServer(t *testing.T, withData bool) *previewServer {
	t.Helper()
	dir := t.TempDir()
	if withData {
		data := `[{"name":"movies.md","path":"./markdown/movies.md","content":{"categories":[{"title":"Movies","links":[],"subcategories":[]}],"uncategorizedLinks":[],"links":[{"title":"Heat","url":"http://example.com","category":"Movies","subcategory":null}]},"linkCount":1}]`
		if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(data), 0o644); err != nil {
			t.Fatalf("write data.json: %v", err)
		}
	}
	return newPreviewServer(dir, site.Defaults())
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("GET /healthz body = %q", got)
	}
}

func TestHandleArchive(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/archive status = %d, want %d", rec.Code, http.StatusOK)
	}

	var files []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &files); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(files) != 1 || files[0]["name"] != "movies.md" {
		t.Errorf("GET /api/archive = %v, want one movies.md record", files)
	}
}

func TestHandleStats(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/archive/stats status = %d, want %d", rec.Code, http.StatusOK)
	}

	var stats map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats["files"] != 1 || stats["links"] != 1 || stats["categories"] != 1 {
		t.Errorf("GET /api/archive/stats = %v, want 1/1/1", stats)
	}
}

func TestHandleArchiveMissingData(t *testing.T) {
	srv := newTestServer(t, false)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /api/archive status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Error("error response has no error field")
	}
}
