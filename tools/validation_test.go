package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/markdown"
)

func TestIsFilePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty string", "", false},
		{"json object", `{"a": 1}`, false},
		{"json array", `[{"name": "a.md"}]`, false},
		{"json with leading whitespace", "  [1, 2]", false},
		{"unix absolute path", "/tmp/data.json", true},
		{"relative path", "./data.json", true},
		{"parent path", "../site/data.json", true},
		{"windows path", `C:\site\data.json`, true},
		{"bare json filename", "data.json", true},
		{"multiline non-json", "not\na\npath.json", false},
		{"plain word", "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFilePath(tt.input); got != tt.want {
				t.Errorf("isFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// validFixture marshals a parsed document the way builddata publishes it.
func validFixture(t *testing.T) string {
	t.Helper()

	doc := markdown.Parse("[Early](http://e)\n**Movies**\n*Action*\n1. [Heat](http://a)\n")
	data, err := archive.MarshalPretty([]archive.FileData{{
		Name:      "movies.md",
		Path:      "./markdown/movies.md",
		Content:   doc,
		LinkCount: len(doc.Links),
	}})
	if err != nil {
		t.Fatalf("MarshalPretty() error = %v", err)
	}
	return string(data)
}

func TestValidateArchiveData(t *testing.T) {
	t.Run("valid inline data", func(t *testing.T) {
		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: validFixture(t)})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if !output.Valid {
			t.Fatalf("valid data rejected: %+v", output.Errors)
		}
		if output.Method != "schema" {
			t.Errorf("method = %q, want schema", output.Method)
		}
		if output.Files != 1 || output.Links != 2 {
			t.Errorf("counts = %d files / %d links, want 1/2", output.Files, output.Links)
		}
	})

	t.Run("invalid json syntax", func(t *testing.T) {
		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: `[{"name": }`})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if output.Valid || output.Method != "syntax" {
			t.Errorf("output = %+v, want invalid with method syntax", output)
		}
		if len(output.Errors) != 1 || output.Errors[0].Code != "INVALID_JSON" {
			t.Errorf("errors = %+v, want one INVALID_JSON", output.Errors)
		}
	})

	t.Run("schema violation reported with path", func(t *testing.T) {
		// linkCount present but content is missing its links sequence
		broken := `[{"name": "a.md", "path": "./markdown/a.md", "linkCount": 0,
			"content": {"categories": [], "uncategorizedLinks": []}}]`

		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: broken})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if output.Valid {
			t.Fatal("broken data accepted")
		}
		if output.Method != "schema" {
			t.Errorf("method = %q, want schema", output.Method)
		}
		if len(output.Errors) == 0 {
			t.Fatal("expected at least one error")
		}
		found := false
		for _, e := range output.Errors {
			if strings.Contains(e.Path, "content") {
				found = true
			}
		}
		if !found {
			t.Errorf("errors %+v should point at the content object", output.Errors)
		}
	})

	t.Run("empty link title rejected", func(t *testing.T) {
		broken := `[{"name": "a.md", "path": "p", "linkCount": 1, "content": {
			"categories": [], "uncategorizedLinks": [{"title": "", "url": "http://x"}],
			"links": [{"title": "", "url": "http://x", "category": "Uncategorized", "subcategory": null}]}}]`

		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: broken})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if output.Valid {
			t.Fatal("empty link title accepted")
		}
	})

	t.Run("file path input", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		if err := os.WriteFile(path, []byte(validFixture(t)), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: path})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if !output.Valid {
			t.Errorf("valid file rejected: %+v", output.Errors)
		}
	})

	t.Run("missing file reported", func(t *testing.T) {
		_, output, err := ValidateArchiveData(context.Background(), nil, ValidateArchiveDataInput{Data: "/no/such/data.json"})
		if err != nil {
			t.Fatalf("ValidateArchiveData() error = %v", err)
		}
		if output.Valid || output.Method != "file_read" {
			t.Errorf("output = %+v, want file_read failure", output)
		}
		if len(output.Errors) != 1 || output.Errors[0].Code != "FILE_READ_ERROR" {
			t.Errorf("errors = %+v, want one FILE_READ_ERROR", output.Errors)
		}
	})
}

func TestValidateStructural(t *testing.T) {
	t.Run("accepts consistent data", func(t *testing.T) {
		output := validateStructural(validFixture(t), nil)
		if !output.Valid {
			t.Fatalf("consistent data rejected: %+v", output.Errors)
		}
		if output.Method != "structural" {
			t.Errorf("method = %q, want structural", output.Method)
		}
	})

	t.Run("detects linkCount mismatch", func(t *testing.T) {
		doc := markdown.Parse("**A**\n[x](http://x)\n")
		data, err := archive.MarshalPretty([]archive.FileData{{
			Name:      "a.md",
			Path:      "./markdown/a.md",
			Content:   doc,
			LinkCount: 7,
		}})
		if err != nil {
			t.Fatalf("MarshalPretty() error = %v", err)
		}

		output := validateStructural(string(data), nil)
		if output.Valid {
			t.Fatal("mismatched linkCount accepted")
		}
		found := false
		for _, e := range output.Errors {
			if e.Code == "COUNT_MISMATCH" {
				found = true
			}
		}
		if !found {
			t.Errorf("errors = %+v, want a COUNT_MISMATCH", output.Errors)
		}
	})

	t.Run("detects missing content", func(t *testing.T) {
		output := validateStructural(`[{"name": "a.md", "path": "p", "linkCount": 0}]`, nil)
		if output.Valid {
			t.Fatal("record without content accepted")
		}
	})

	t.Run("rejects non-array document", func(t *testing.T) {
		output := validateStructural(`{"name": "a.md"}`, nil)
		if output.Valid || len(output.Errors) == 0 {
			t.Errorf("output = %+v, want INVALID_SHAPE error", output)
		}
	})
}
