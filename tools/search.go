package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/indexing"
	"github.com/vidarchive/mcp-server/internal/site"
)

const (
	defaultMaxResults = 10
	maxResultsCap     = 20

	searchIndexDir = "search/index"
	searchLockFile = "search/index.lock"
	lockTimeout    = 5 * time.Second // Max time to wait for lock
	lockRetryWait  = 500 * time.Millisecond
)

var (
	siteDir string      // Site directory holding markdown, data.json, and the search index
	siteCfg site.Config // Site configuration loaded from siteDir
)

func init() {
	siteDir = site.Resolve()

	cfg, err := site.LoadOptional(filepath.Join(siteDir, site.ConfigFile))
	if err != nil {
		log.Printf("⚠️  Ignoring invalid %s in %s: %v", site.ConfigFile, siteDir, err)
		cfg = site.Defaults()
	}
	siteCfg = cfg

	log.Printf("✓ Site directory: %s", siteDir)
}

func indexPath() string {
	return searchIndexIn(siteDir)
}

func searchIndexIn(dir string) string {
	return filepath.Join(dir, filepath.FromSlash(searchIndexDir))
}

func lockPath() string {
	return filepath.Join(siteDir, filepath.FromSlash(searchLockFile))
}

func dataFilePath() string {
	return siteCfg.DataPath(siteDir)
}

func markdownDirPath() string {
	return siteCfg.MarkdownPath(siteDir)
}

// isProcessRunning is implemented in platform-specific files:
// - lock_unix.go for Unix/Linux/macOS
// - lock_windows.go for Windows

// cleanStaleLock removes the lock file if the owning process is dead
func cleanStaleLock() error {
	data, err := os.ReadFile(lockPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No lock file, nothing to clean
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		log.Printf("Warning: Corrupted lock file (invalid PID), removing...")
		return os.Remove(lockPath())
	}

	if isProcessRunning(pid) {
		return fmt.Errorf("lock held by running process %d", pid)
	}

	log.Printf("Stale lock detected (PID %d not running), cleaning...", pid)
	return os.Remove(lockPath())
}

// acquireLock attempts to acquire the index lock with retry
func acquireLock() error {
	ourPID := os.Getpid()

	// Check if we already have the lock
	if data, err := os.ReadFile(lockPath()); err == nil {
		if pidStr := strings.TrimSpace(string(data)); pidStr != "" {
			if pid, err := strconv.Atoi(pidStr); err == nil && pid == ourPID {
				return nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(lockPath()), 0755); err != nil {
		return fmt.Errorf("failed to create search directory: %w", err)
	}

	startTime := time.Now()

	for {
		// Try to clean stale lock first
		if err := cleanStaleLock(); err != nil {
			// Lock is held by an active process
			elapsed := time.Since(startTime)
			if elapsed >= lockTimeout {
				return fmt.Errorf("timeout waiting for index lock after %v: %w", elapsed, err)
			}

			log.Printf("Index locked by another process, waiting... (%v elapsed)", elapsed.Round(100*time.Millisecond))
			time.Sleep(lockRetryWait)
			continue
		}

		// Try to create lock file with our PID
		if err := os.WriteFile(lockPath(), []byte(strconv.Itoa(ourPID)), 0644); err != nil {
			return fmt.Errorf("failed to create lock file: %w", err)
		}

		log.Printf("✓ Index lock acquired (PID %d)", ourPID)
		return nil
	}
}

// releaseLock releases the index lock
func releaseLock() error {
	data, err := os.ReadFile(lockPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Lock already removed
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	// Verify we own the lock before removing
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err == nil && pid != os.Getpid() {
		log.Printf("Warning: Lock file contains different PID (%d vs %d), not removing", pid, os.Getpid())
		return nil
	}

	if err := os.Remove(lockPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	log.Printf("✓ Index lock released")
	return nil
}

// SearchResult represents one matched link with its relevance score
type SearchResult struct {
	Entry indexing.LinkEntry `json:"entry"`
	Score float64            `json:"score"`
}

// SearchArchiveInput defines input for the search_archive tool
type SearchArchiveInput struct {
	Query      string `json:"query" jsonschema:"Search query matched against link titles, categories, and keywords"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10)"`
}

// SearchArchiveOutput defines output for the search_archive tool
type SearchArchiveOutput struct {
	Results   []SearchResult `json:"results"`
	Query     string         `json:"query"`
	TotalHits int            `json:"total_hits"`
}

// RefreshArchiveIndexInput defines input for the refresh_archive_index tool
type RefreshArchiveIndexInput struct {
	Force bool `json:"force,omitempty" jsonschema:"Force a rebuild even when data and index look fresh (optional, defaults to false)"`
}

// RefreshArchiveIndexOutput defines output for the refresh_archive_index tool
type RefreshArchiveIndexOutput struct {
	Updated        bool      `json:"updated"`
	LastUpdate     time.Time `json:"last_update"`
	FilesProcessed int       `json:"files_processed"`
	EntriesIndexed int       `json:"entries_indexed"`
	Message        string    `json:"message"`
}

// indexHolder manages concurrent access to the bleve link index
type indexHolder struct {
	// current holds the active index pointer (atomic access for lock-free reads)
	current atomic.Pointer[Index]

	// refreshMu prevents concurrent refresh operations
	// NOT used for searches - they are lock-free via atomic pointer
	refreshMu sync.Mutex

	// wg tracks in-flight search operations for graceful cleanup of old indexes
	wg sync.WaitGroup
}

var indexMgr *indexHolder

// InitializeSearch opens the site's search index, rebuilding it from the
// archive data when it is missing, corrupted, or built with an old schema.
func InitializeSearch() error {
	startTime := time.Now()
	log.Printf("Initializing archive search...")

	if indexMgr == nil {
		indexMgr = &indexHolder{}
	}

	idxPath := indexPath()

	log.Printf("Acquiring index lock...")
	if err := acquireLock(); err != nil {
		return fmt.Errorf("failed to acquire index lock: %w", err)
	}

	// Strategy 1: Open the existing index when its schema is current
	if _, err := os.Stat(idxPath); err == nil {
		if !indexing.IsCurrent(idxPath) {
			log.Printf("Index schema version mismatch (have: v%d, want: v%d), invalidating old index...",
				indexing.ReadVersion(idxPath), indexing.IndexSchemaVersion)
			os.RemoveAll(idxPath)
			os.Remove(indexing.VersionFile(idxPath))
		} else {
			index, err := bleve.Open(idxPath)
			if err == nil {
				wrapped := NewBleveIndex(index)
				indexMgr.current.Store(&wrapped)
				count, _ := wrapped.DocCount()
				log.Printf("✓ Archive search initialized (%d links, local index v%d) in %v",
					count, indexing.IndexSchemaVersion, time.Since(startTime).Round(time.Millisecond))

				if refreshNeeded() {
					log.Printf("ℹ️  Search index is older than the archive data. Use refresh_archive_index to update.")
				}
				return nil
			}

			log.Printf("Warning: Local index corrupted (open failed), removing...")
			os.RemoveAll(idxPath)
			os.Remove(indexing.VersionFile(idxPath))
		}
	}

	// Strategy 2: Build a fresh index from the site's archive data
	log.Printf("No usable index found, building from archive data...")
	files, err := loadArchiveData()
	if err != nil {
		return fmt.Errorf("no archive data to index: %w", err)
	}

	entries := indexing.FromFiles(files)
	if err := rebuildIndex(entries); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	log.Printf("✓ Archive search initialized (%d links, fresh index) in %v",
		len(entries), time.Since(startTime).Round(time.Millisecond))
	return nil
}

// loadArchiveData reads the compiled data file, falling back to parsing
// the markdown directory directly when the data file is absent.
func loadArchiveData() ([]archive.FileData, error) {
	files, err := archive.ReadData(dataFilePath())
	if err == nil {
		return files, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	log.Printf("No %s found, parsing markdown directory directly...", siteCfg.DataFile)
	return archive.BuildData(markdownDirPath(), nil)
}

// dataStale reports whether the compiled data file is missing or older
// than any markdown file it was built from.
func dataStale() bool {
	info, err := os.Stat(dataFilePath())
	if err != nil {
		return true
	}

	names, err := archive.MarkdownFiles(markdownDirPath())
	if err != nil {
		return false
	}
	for _, name := range names {
		if m, err := os.Stat(filepath.Join(markdownDirPath(), name)); err == nil && m.ModTime().After(info.ModTime()) {
			return true
		}
	}
	return false
}

// indexStale reports whether the search index needs rebuilding: wrong
// schema version, or built before the current data file.
func indexStale() bool {
	if !indexing.IsCurrent(indexPath()) {
		return true
	}
	return site.StaleAgainst(indexing.VersionFile(indexPath()), dataFilePath())
}

func refreshNeeded() bool {
	return dataStale() || indexStale()
}

// indexBuiltAt returns when the index was last built, from the version
// marker's modification time.
func indexBuiltAt() time.Time {
	info, err := os.Stat(indexing.VersionFile(indexPath()))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// rebuildIndex builds a new index in a temp location, swaps it into
// place on disk, and atomically replaces the in-memory index pointer.
// In-flight searches keep using the old index until they finish.
func rebuildIndex(entries []indexing.LinkEntry) error {
	startTime := time.Now()
	idxPath := indexPath()
	tempPath := idxPath + ".tmp"

	// Clean up any leftover temp index from a previous crash
	os.RemoveAll(tempPath)

	log.Printf("Building new index with %d entries in temp location...", len(entries))
	if _, err := indexing.BuildIndex(tempPath, entries, log.Printf); err != nil {
		os.RemoveAll(tempPath)
		return err
	}

	// Atomic filesystem swap: rename temp to final location
	if err := os.RemoveAll(idxPath); err != nil && !os.IsNotExist(err) {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(tempPath, idxPath); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to rename temp index: %w", err)
	}

	finalIndex, err := bleve.Open(idxPath)
	if err != nil {
		return fmt.Errorf("failed to open new index: %w", err)
	}

	wrapped := NewBleveIndex(finalIndex)
	oldIndexPtr := indexMgr.current.Swap(&wrapped)

	// Graceful cleanup of the old index in the background
	go func(oldPtr *Index) {
		if oldPtr == nil {
			return
		}

		// Wait for all in-flight searches on the old index to complete
		indexMgr.wg.Wait()

		old := *oldPtr
		if err := old.Close(); err != nil {
			log.Printf("Warning: Error closing old index: %v", err)
		}
	}(oldIndexPtr)

	if err := indexing.WriteVersion(idxPath); err != nil {
		log.Printf("Warning: Failed to write index version: %v", err)
	}

	log.Printf("✓ Index rebuild completed in %v, searches now using new index",
		time.Since(startTime).Round(time.Millisecond))
	return nil
}

// refreshArchive rebuilds the data file from markdown when it is stale,
// then rebuilds the search index from the data. Returns what was done.
func refreshArchive(force bool) (filesProcessed, entriesIndexed int, updated bool, err error) {
	// Serialize refresh operations (prevent concurrent refreshes)
	indexMgr.refreshMu.Lock()
	defer indexMgr.refreshMu.Unlock()

	// Re-check after acquiring the mutex - another goroutine may have
	// refreshed while we were waiting
	if !force && !refreshNeeded() {
		return 0, 0, false, nil
	}

	log.Printf("Starting archive refresh (force=%v)...", force)

	// Acquire inter-process lock (will wait if another process has it)
	if err := acquireLock(); err != nil {
		return 0, 0, false, fmt.Errorf("failed to acquire lock for refresh: %w", err)
	}
	// Note: lock is released by CloseSearch() when the process exits

	var files []archive.FileData
	if force || dataStale() {
		files, err = archive.BuildData(markdownDirPath(), nil)
		if err != nil {
			return 0, 0, false, fmt.Errorf("rebuild archive data: %w", err)
		}
		if err := archive.WriteJSON(dataFilePath(), files, false); err != nil {
			return 0, 0, false, fmt.Errorf("write %s: %w", siteCfg.DataFile, err)
		}
		log.Printf("Rebuilt %s from %d markdown files", siteCfg.DataFile, len(files))
	} else {
		files, err = archive.ReadData(dataFilePath())
		if err != nil {
			return 0, 0, false, fmt.Errorf("read %s: %w", siteCfg.DataFile, err)
		}
	}

	entries := indexing.FromFiles(files)
	if err := rebuildIndex(entries); err != nil {
		return 0, 0, false, fmt.Errorf("indexing failed: %w", err)
	}

	return len(files), len(entries), true, nil
}

// SearchArchive searches the indexed links of the archive
func SearchArchive(ctx context.Context, req *mcp.CallToolRequest, input SearchArchiveInput) (*mcp.CallToolResult, SearchArchiveOutput, error) {
	// Track in-flight searches for graceful cleanup (MUST be before Load)
	indexMgr.wg.Add(1)
	defer indexMgr.wg.Done()

	// Get the current index atomically (lock-free read)
	indexPtr := indexMgr.current.Load()

	// If the index is not initialized, try to initialize it now
	if indexPtr == nil {
		log.Printf("Search index not initialized, initializing now...")
		if err := InitializeSearch(); err != nil {
			return nil, SearchArchiveOutput{}, fmt.Errorf("failed to initialize archive search: %w", err)
		}
		indexPtr = indexMgr.current.Load()
		if indexPtr == nil {
			return nil, SearchArchiveOutput{}, fmt.Errorf("index still nil after initialization")
		}
	}

	index := *indexPtr

	maxResults := input.MaxResults
	if maxResults <= 0 || maxResults > maxResultsCap {
		maxResults = defaultMaxResults
	}

	query := bleve.NewMatchQuery(input.Query)
	search := bleve.NewSearchRequest(query)
	search.Size = maxResults
	search.Fields = []string{"*"}

	searchResults, err := index.Search(search)
	if err != nil {
		return nil, SearchArchiveOutput{}, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		entry := indexing.LinkEntry{
			ID: hit.ID,
		}

		if file, ok := hit.Fields["file"].(string); ok {
			entry.File = file
		}
		if category, ok := hit.Fields["category"].(string); ok {
			entry.Category = category
		}
		if subcategory, ok := hit.Fields["subcategory"].(string); ok {
			entry.Subcategory = subcategory
		}
		if title, ok := hit.Fields["title"].(string); ok {
			entry.Title = title
		}
		if url, ok := hit.Fields["url"].(string); ok {
			entry.URL = url
		}
		if breadcrumb, ok := hit.Fields["breadcrumb"].(string); ok {
			entry.Breadcrumb = breadcrumb
		}
		if anchor, ok := hit.Fields["anchor"].(string); ok {
			entry.Anchor = anchor
		}

		// Stored array fields come back as a bare string when they
		// hold a single value
		switch keywords := hit.Fields["keywords"].(type) {
		case string:
			entry.Keywords = []string{keywords}
		case []interface{}:
			entry.Keywords = make([]string, 0, len(keywords))
			for _, kw := range keywords {
				if kwStr, ok := kw.(string); ok {
					entry.Keywords = append(entry.Keywords, kwStr)
				}
			}
		}

		results = append(results, SearchResult{
			Entry: entry,
			Score: hit.Score,
		})
	}

	output := SearchArchiveOutput{
		Results:   results,
		Query:     input.Query,
		TotalHits: int(searchResults.Total),
	}

	return nil, output, nil
}

// RefreshArchiveIndex rebuilds the archive data and search index
func RefreshArchiveIndex(ctx context.Context, req *mcp.CallToolRequest, input RefreshArchiveIndexInput) (*mcp.CallToolResult, RefreshArchiveIndexOutput, error) {
	output := RefreshArchiveIndexOutput{}

	if !input.Force && !refreshNeeded() {
		output.LastUpdate = indexBuiltAt()
		output.Message = fmt.Sprintf("Index is fresh (built: %s)", output.LastUpdate.Format(time.RFC3339))
		return nil, output, nil
	}

	files, entries, updated, err := refreshArchive(input.Force)
	if err != nil {
		return nil, output, fmt.Errorf("refresh failed: %w", err)
	}
	if !updated {
		output.LastUpdate = indexBuiltAt()
		output.Message = "Index was already refreshed by a concurrent request"
		return nil, output, nil
	}

	output.Updated = true
	output.LastUpdate = time.Now()
	output.FilesProcessed = files
	output.EntriesIndexed = entries
	output.Message = fmt.Sprintf("Archive refreshed successfully, %d links indexed from %d files", entries, files)

	return nil, output, nil
}

// RegisterSearchTools registers the archive search tools
func RegisterSearchTools(server *mcp.Server) error {
	// Initialize search synchronously so the first query is fast
	if err := InitializeSearch(); err != nil {
		log.Printf("Warning: Archive search initialization failed: %v", err)
		log.Printf("Archive search will attempt to initialize on first use")
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_archive",
			Description: "Full-text search across every archived link: titles, categories, subcategories, breadcrumbs, and keywords. Returns the matching links with scores.",
		},
		SearchArchive,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "refresh_archive_index",
			Description: "Rebuilds data.json from the markdown directory when it is stale, then rebuilds the search index. Use force to rebuild unconditionally.",
		},
		RefreshArchiveIndex,
	)

	return nil
}

// CloseSearch closes the search index and releases the inter-process lock
func CloseSearch() error {
	var closeErr error

	if indexMgr != nil {
		// Atomically swap the index to nil (prevents new searches)
		indexPtr := indexMgr.current.Swap(nil)

		if indexPtr != nil {
			// Wait for all in-flight searches to complete
			indexMgr.wg.Wait()

			index := *indexPtr
			closeErr = index.Close()
			if closeErr != nil {
				log.Printf("Error closing search index: %v", closeErr)
			} else {
				log.Printf("✓ Search index closed")
			}
		}
	}

	// Always attempt to release the inter-process lock, even if close failed
	if err := releaseLock(); err != nil {
		log.Printf("Error releasing lock: %v", err)
		if closeErr == nil {
			closeErr = err
		}
	}

	return closeErr
}
