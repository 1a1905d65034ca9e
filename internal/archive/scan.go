// Package archive turns a directory of markdown files into the JSON
// artifacts the static viewer loads: data.json with every file's parsed
// structure, index.json with the filename listing, and the optional
// files.txt companion.
package archive

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrMissingDir reports that the markdown directory does not exist.
var ErrMissingDir = errors.New("markdown directory not found")

// ErrNoMarkdownFiles reports a directory with nothing to process.
var ErrNoMarkdownFiles = errors.New("no markdown files found")

// MarkdownFiles returns the names of the directory's *.md files (exact
// suffix match), sorted ascending. The data builder uses this strict
// filter.
func MarkdownFiles(dir string) ([]string, error) {
	return scanNames(dir, func(name string) bool {
		return strings.HasSuffix(name, ".md")
	})
}

// IndexNames returns the directory's markdown filenames matched
// case-insensitively, sorted ascending. The index generator accepts
// README.MD-style names the data builder ignores.
func IndexNames(dir string) ([]string, error) {
	return scanNames(dir, func(name string) bool {
		return strings.HasSuffix(strings.ToLower(name), ".md")
	})
}

func scanNames(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDir, dir)
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
