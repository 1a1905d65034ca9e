package tools

import (
	"embed"
	"io/fs"
)

// Embed static data files into the binary so the MCP server works
// standalone without external files on the filesystem.
// Works cross-platform: macOS, Linux, Windows
//
// Embedded files:
// - Archive data JSON Schema (validate_archive_data)
// - Starter markdown scaffold (generate_markdown_file)

//go:embed data/schema/archive-data.schema.json
//go:embed data/templates/starter.md
var embeddedFS embed.FS

// Embedded asset paths
const (
	schemaAsset  = "data/schema/archive-data.schema.json"
	starterAsset = "data/templates/starter.md"
)

// embeddedDataProvider implements DataProvider using embed.FS.
// This is the production implementation that uses actual embedded files.
type embeddedDataProvider struct {
	fs embed.FS
}

// NewEmbeddedDataProvider creates a production DataProvider that uses embedded files.
func NewEmbeddedDataProvider() DataProvider {
	return &embeddedDataProvider{fs: embeddedFS}
}

// ReadFile reads the named file from the embedded filesystem.
func (p *embeddedDataProvider) ReadFile(name string) ([]byte, error) {
	return p.fs.ReadFile(name)
}

// ReadDir reads the named directory from the embedded filesystem.
func (p *embeddedDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return p.fs.ReadDir(name)
}

// Default provider used by package-level functions
var defaultDataProvider DataProvider = NewEmbeddedDataProvider()
