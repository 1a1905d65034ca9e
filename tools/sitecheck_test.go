package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vidarchive/mcp-server/internal/indexing"
)

func TestCheckSite_EmptyDirectory(t *testing.T) {
	withTempSite(t)

	_, output, err := CheckSite(context.Background(), nil, CheckSiteInput{})
	if err != nil {
		t.Fatalf("CheckSite() error = %v", err)
	}

	if output.Status.Ready {
		t.Error("empty directory reported as ready")
	}
	if output.HasSearchIndex {
		t.Error("empty directory reported a search index")
	}
	if len(output.Hints) == 0 {
		t.Fatal("expected hints for an empty directory")
	}

	joined := strings.Join(output.Hints, "\n")
	if !strings.Contains(joined, "markdown") {
		t.Errorf("hints %v should mention the missing markdown directory", output.Hints)
	}
	if !strings.Contains(joined, "search index") {
		t.Errorf("hints %v should mention the missing search index", output.Hints)
	}
}

func TestCheckSite_HealthySite(t *testing.T) {
	dir := withTempSite(t)
	seedArchiveData(t, map[string]string{
		"movies.md": "**Movies**\n1. [Heat](http://example.com/heat)\n",
	})

	// Markdown older than the generated artifacts
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "markdown", "movies.md"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte(`{"movies.md":{}}`), 0o644); err != nil {
		t.Fatalf("write index.json: %v", err)
	}

	idxDir := searchIndexIn(dir)
	if err := os.MkdirAll(idxDir, 0o755); err != nil {
		t.Fatalf("mkdir search index: %v", err)
	}
	if err := indexing.WriteVersion(idxDir); err != nil {
		t.Fatalf("WriteVersion() error = %v", err)
	}

	_, output, err := CheckSite(context.Background(), nil, CheckSiteInput{})
	if err != nil {
		t.Fatalf("CheckSite() error = %v", err)
	}

	if !output.Status.Ready {
		t.Errorf("healthy site not ready: problems = %v", output.Status.Problems)
	}
	if !output.HasSearchIndex || !output.SearchIndexCurrent {
		t.Errorf("search index = present %v / current %v, want both true", output.HasSearchIndex, output.SearchIndexCurrent)
	}
	if output.Status.DataFiles != 1 || output.Status.DataLinks != 1 {
		t.Errorf("data = %d files / %d links, want 1/1", output.Status.DataFiles, output.Status.DataLinks)
	}
	if len(output.Hints) != 1 || output.Hints[0] != "Site looks healthy" {
		t.Errorf("hints = %v, want the healthy notice", output.Hints)
	}
}

func TestCheckSite_OutdatedIndexSchema(t *testing.T) {
	dir := withTempSite(t)

	idxDir := searchIndexIn(dir)
	if err := os.MkdirAll(idxDir, 0o755); err != nil {
		t.Fatalf("mkdir search index: %v", err)
	}
	if err := os.WriteFile(indexing.VersionFile(idxDir), []byte("0"), 0o644); err != nil {
		t.Fatalf("write version marker: %v", err)
	}

	_, output, err := CheckSite(context.Background(), nil, CheckSiteInput{})
	if err != nil {
		t.Fatalf("CheckSite() error = %v", err)
	}

	if !output.HasSearchIndex {
		t.Error("search index directory not detected")
	}
	if output.SearchIndexCurrent {
		t.Error("stale schema version reported as current")
	}

	joined := strings.Join(output.Hints, "\n")
	if !strings.Contains(joined, "schema") {
		t.Errorf("hints %v should mention the schema mismatch", output.Hints)
	}
}

func TestCheckSite_ExplicitDirectory(t *testing.T) {
	withTempSite(t)

	other := t.TempDir()
	_, output, err := CheckSite(context.Background(), nil, CheckSiteInput{Dir: other})
	if err != nil {
		t.Fatalf("CheckSite() error = %v", err)
	}

	if output.Status.Dir != other {
		t.Errorf("inspected dir = %q, want %q", output.Status.Dir, other)
	}
}
