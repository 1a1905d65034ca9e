package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vidarchive/mcp-server/internal/archive"
)

// seedArchiveData builds a data.json in the temp site from fixture
// markdown and returns the parsed records.
func seedArchiveData(t *testing.T, files map[string]string) []archive.FileData {
	t.Helper()

	mdDir := filepath.Join(siteDir, "markdown")
	if err := os.MkdirAll(mdDir, 0o755); err != nil {
		t.Fatalf("mkdir markdown: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(mdDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	data, err := archive.BuildData(mdDir, nil)
	if err != nil {
		t.Fatalf("BuildData() error = %v", err)
	}
	if err := archive.WriteJSON(filepath.Join(siteDir, "data.json"), data, false); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	return data
}

func TestListArchiveFiles(t *testing.T) {
	withTempSite(t)
	seedArchiveData(t, map[string]string{
		"movies.md": "**Movies**\n*Action*\n1. [Heat](http://a)\n2. [Ronin](http://b)\n",
		"shows.md":  "[Stray](http://c)\n",
	})

	_, output, err := ListArchiveFiles(context.Background(), nil, ListArchiveFilesInput{})
	if err != nil {
		t.Fatalf("ListArchiveFiles() error = %v", err)
	}

	if output.Count != 2 || len(output.Files) != 2 {
		t.Fatalf("got %d files, want 2", output.Count)
	}

	first := output.Files[0]
	if first.Name != "movies.md" || first.LinkCount != 2 || first.Categories != 1 {
		t.Errorf("files[0] = %+v, want movies.md with 2 links in 1 category", first)
	}
	if first.Path != "./markdown/movies.md" {
		t.Errorf("files[0].Path = %q, want viewer path", first.Path)
	}

	second := output.Files[1]
	if second.Name != "shows.md" || second.LinkCount != 1 || second.Categories != 0 {
		t.Errorf("files[1] = %+v, want shows.md with 1 uncategorized link", second)
	}
}

func TestGetFileStructure(t *testing.T) {
	withTempSite(t)
	seedArchiveData(t, map[string]string{
		"movies.md": "**Movies**\n*Action*\n1. [Heat](http://a)\n",
	})

	t.Run("found", func(t *testing.T) {
		_, output, err := GetFileStructure(context.Background(), nil, GetFileStructureInput{Name: "movies.md"})
		if err != nil {
			t.Fatalf("GetFileStructure() error = %v", err)
		}
		if output.Name != "movies.md" || output.LinkCount != 1 {
			t.Errorf("output = %+v, want movies.md with 1 link", output)
		}
		if output.Content == nil || len(output.Content.Categories) != 1 {
			t.Fatalf("content = %+v, want one category", output.Content)
		}
		cat := output.Content.Categories[0]
		if cat.Title != "Movies" || len(cat.Subcategories) != 1 || cat.Subcategories[0].Title != "Action" {
			t.Errorf("category = %+v, want Movies > Action", cat)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, _, err := GetFileStructure(context.Background(), nil, GetFileStructureInput{Name: "missing.md"})
		if err == nil {
			t.Fatal("expected error for unknown file")
		}
		if !strings.Contains(err.Error(), "missing.md") {
			t.Errorf("error %q should name the missing file", err)
		}
	})
}

func TestGetArchiveStats(t *testing.T) {
	withTempSite(t)
	seedArchiveData(t, map[string]string{
		"movies.md": "**Movies**\n[Direct](http://d)\n*Action*\n1. [Heat](http://a)\n2. [Ronin](http://b)\n",
		"music.md":  "[Early](http://e)\n**Concerts**\n[Live](http://f)\n",
	})

	_, output, err := GetArchiveStats(context.Background(), nil, GetArchiveStatsInput{})
	if err != nil {
		t.Fatalf("GetArchiveStats() error = %v", err)
	}

	if output.Files != 2 {
		t.Errorf("Files = %d, want 2", output.Files)
	}
	if output.Links != 5 {
		t.Errorf("Links = %d, want 5", output.Links)
	}
	if output.Categories != 2 || output.Subcategories != 1 {
		t.Errorf("Categories/Subcategories = %d/%d, want 2/1", output.Categories, output.Subcategories)
	}
	if output.UncategorizedLinks != 1 {
		t.Errorf("UncategorizedLinks = %d, want 1", output.UncategorizedLinks)
	}

	if len(output.TopCategories) != 2 {
		t.Fatalf("TopCategories = %+v, want 2 entries", output.TopCategories)
	}
	if output.TopCategories[0].Title != "Movies" || output.TopCategories[0].Links != 3 {
		t.Errorf("top category = %+v, want Movies with 3 links", output.TopCategories[0])
	}
	if output.TopCategories[1].Title != "Concerts" || output.TopCategories[1].Links != 1 {
		t.Errorf("second category = %+v, want Concerts with 1 link", output.TopCategories[1])
	}
}

func TestGetArchiveStats_TopCategoriesLimit(t *testing.T) {
	withTempSite(t)
	seedArchiveData(t, map[string]string{
		"a.md": "**One**\n[1](http://1)\n**Two**\n[2](http://2)\n**Three**\n[3](http://3)\n",
	})

	_, output, err := GetArchiveStats(context.Background(), nil, GetArchiveStatsInput{TopCategories: 2})
	if err != nil {
		t.Fatalf("GetArchiveStats() error = %v", err)
	}
	if len(output.TopCategories) != 2 {
		t.Errorf("TopCategories = %+v, want it capped at 2", output.TopCategories)
	}
}

func TestLoadArchiveData_FallsBackToMarkdown(t *testing.T) {
	withTempSite(t)

	// Markdown only, no data.json
	mdDir := filepath.Join(siteDir, "markdown")
	if err := os.MkdirAll(mdDir, 0o755); err != nil {
		t.Fatalf("mkdir markdown: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mdDir, "a.md"), []byte("**A**\n[x](http://x)\n"), 0o644); err != nil {
		t.Fatalf("write a.md: %v", err)
	}

	files, err := loadArchiveData()
	if err != nil {
		t.Fatalf("loadArchiveData() error = %v", err)
	}
	if len(files) != 1 || files[0].Name != "a.md" || files[0].LinkCount != 1 {
		t.Errorf("files = %+v, want one record for a.md", files)
	}
}
