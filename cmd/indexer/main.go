package main

import (
	"fmt"
	"log"
	"os"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/indexing"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <data-file> <index-dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s data.json search/index\n", os.Args[0])
		os.Exit(1)
	}

	dataFile := os.Args[1]
	indexDir := os.Args[2]

	log.Printf("Archive Link Indexer v%d", indexing.IndexSchemaVersion)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Step 1: Load compiled archive data
	log.Printf("Loading archive data: %s", dataFile)
	files, err := archive.ReadData(dataFile)
	if err != nil {
		log.Fatalf("Failed to load archive data: %v", err)
	}

	entries := indexing.FromFiles(files)
	log.Printf("✓ Derived %d entries from %d files", len(entries), len(files))

	// Step 2: Build the index
	log.Printf("Creating search index: %s", indexDir)
	count, err := indexing.BuildIndex(indexDir, entries, log.Printf)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	log.Printf("✓ Indexed %d entries successfully", count)

	// Step 3: Write version file
	if err := indexing.WriteVersion(indexDir); err != nil {
		log.Printf("Warning: Failed to write version file: %v", err)
	} else {
		log.Printf("✓ Index schema version: v%d", indexing.IndexSchemaVersion)
	}

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✓ Indexing complete!")
	log.Printf("")
	log.Printf("Index details:")
	log.Printf("  Location:      %s", indexDir)
	log.Printf("  Total entries: %d", count)
	log.Printf("  Source files:  %d", len(files))
	log.Printf("  Schema:        v%d (per-link entries with hierarchy metadata)", indexing.IndexSchemaVersion)
}
