package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vidarchive/mcp-server/internal/markdown"
)

// ViewerPathPrefix is the URL prefix the static viewer fetches markdown
// files from. It is part of the data.json contract and independent of
// where the files were scanned on disk.
const ViewerPathPrefix = "./markdown/"

// FileData is one data.json record: a markdown file together with its
// parsed structure and the number of links it contributed.
type FileData struct {
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	Content   *markdown.Document `json:"content"`
	LinkCount int                `json:"linkCount"`
}

// Logf receives progress lines and per-file warnings during a build. A
// nil Logf silences them.
type Logf func(format string, args ...any)

// BuildData parses every *.md file in dir into FileData records, in
// filename order. A file that cannot be read is reported through logf and
// skipped; the build continues with the remaining files. Returns
// ErrMissingDir or ErrNoMarkdownFiles when there is nothing to build.
func BuildData(dir string, logf Logf) ([]FileData, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	names, err := MarkdownFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoMarkdownFiles
	}
	logf("✅ Found %d markdown files. Processing...", len(names))

	files := make([]FileData, 0, len(names))
	for _, name := range names {
		logf("   -> Processing '%s'", name)

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logf("      ❌ Error processing file %s: %v", name, err)
			continue
		}

		doc := markdown.Parse(decodeText(raw))
		files = append(files, FileData{
			Name:      name,
			Path:      ViewerPathPrefix + name,
			Content:   doc,
			LinkCount: len(doc.Links),
		})
	}

	return files, nil
}

// decodeText interprets raw bytes as UTF-8, replacing invalid sequences
// with U+FFFD so a damaged file never aborts a build.
func decodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// ReadData loads a previously built data file back into FileData records.
func ReadData(path string) ([]FileData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var files []FileData
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return files, nil
}
