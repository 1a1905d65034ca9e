package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IndexEntry is one file's row in the metadata form of index.json.
type IndexEntry struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Exists bool   `json:"exists"`
}

// IndexMetadata is the detailed index.json shape produced with the
// metadata toggle: per-file stat results plus generation info.
type IndexMetadata struct {
	Files       []IndexEntry `json:"files"`
	GeneratedAt string       `json:"generated_at"`
	TotalFiles  int          `json:"total_files"`
}

// BuildIndexMetadata stats every name inside dir. Files that vanished
// between scan and stat are recorded with Exists false and size zero
// rather than dropped, so the index always mirrors the scan.
func BuildIndexMetadata(dir string, names []string, now time.Time) IndexMetadata {
	meta := IndexMetadata{
		Files:       make([]IndexEntry, 0, len(names)),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		TotalFiles:  len(names),
	}

	for _, name := range names {
		entry := IndexEntry{Name: name}
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
			entry.Size = info.Size()
			entry.Exists = true
		}
		meta.Files = append(meta.Files, entry)
	}

	return meta
}

// FileSize returns the size of dir/name in bytes, or zero when the file
// cannot be stat'ed.
func FileSize(dir, name string) int64 {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return 0
	}
	return info.Size()
}

// TextListPath derives the files.txt location from the index.json output
// path: the .json suffix becomes .txt, and the conventional index.txt
// name maps to files.txt.
func TextListPath(indexPath string) string {
	path := strings.ReplaceAll(indexPath, ".json", ".txt")
	return strings.ReplaceAll(path, "index.txt", "files.txt")
}

// WriteTextList writes one filename per line.
func WriteTextList(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
