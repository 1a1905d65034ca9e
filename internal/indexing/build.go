package indexing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
)

// BuildIndex creates a fresh bleve index at path containing every entry,
// replacing any index already there. Entries are submitted in batches of
// BatchSize. Batch progress is reported through progress when non-nil.
// Returns the number of entries indexed.
func BuildIndex(path string, entries []LinkEntry, progress func(format string, args ...any)) (int, error) {
	if progress == nil {
		progress = func(string, ...any) {}
	}

	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("remove old index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create index directory: %w", err)
	}

	mapping := bleve.NewIndexMapping()
	index, err := bleve.New(path, mapping)
	if err != nil {
		return 0, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for i, entry := range entries {
		if err := batch.Index(entry.ID, entry); err != nil {
			index.Close()
			return 0, fmt.Errorf("add entry %s to batch: %w", entry.ID, err)
		}

		// Submit batch every BatchSize documents
		if (i+1)%BatchSize == 0 {
			if err := index.Batch(batch); err != nil {
				index.Close()
				return 0, fmt.Errorf("index batch: %w", err)
			}
			batch = index.NewBatch()
			progress("  Indexed %d/%d entries...", i+1, len(entries))
		}
	}

	// Submit remaining
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return 0, fmt.Errorf("index final batch: %w", err)
		}
	}

	if err := index.Close(); err != nil {
		return 0, fmt.Errorf("close index: %w", err)
	}
	return len(entries), nil
}
