package indexing

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// VersionFile returns the schema version marker path for an index
// directory. The marker lives beside the index, not inside it, so
// replacing the index directory does not destroy the marker.
func VersionFile(indexDir string) string {
	return filepath.Join(filepath.Dir(indexDir), ".index_version")
}

// WriteVersion records the current schema version beside the index.
func WriteVersion(indexDir string) error {
	return os.WriteFile(VersionFile(indexDir), []byte(strconv.Itoa(IndexSchemaVersion)), 0644)
}

// ReadVersion returns the recorded schema version, or zero when the
// marker is missing or unreadable.
func ReadVersion(indexDir string) int {
	raw, err := os.ReadFile(VersionFile(indexDir))
	if err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0
	}
	return v
}

// IsCurrent reports whether the on-disk index was built with the current
// entry schema.
func IsCurrent(indexDir string) bool {
	return ReadVersion(indexDir) == IndexSchemaVersion
}
