package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidarchive/mcp-server/internal/indexing"
	"github.com/vidarchive/mcp-server/internal/site"
)

// CheckSiteInput defines input for check_site tool
type CheckSiteInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"Site directory to inspect (optional, defaults to the server's resolved site directory)"`
}

// CheckSiteOutput defines output for check_site tool
type CheckSiteOutput struct {
	*site.Status
	HasSearchIndex     bool     `json:"has_search_index"`
	SearchIndexCurrent bool     `json:"search_index_current"`
	Hints              []string `json:"hints"`
}

// CheckSite inspects an archive site directory and reports what is
// missing, stale, or broken, with hints on how to fix it
func CheckSite(ctx context.Context, req *mcp.CallToolRequest, input CheckSiteInput) (*mcp.CallToolResult, CheckSiteOutput, error) {
	dir := input.Dir
	if dir == "" {
		dir = siteDir
	}

	output := CheckSiteOutput{
		Status: site.Inspect(dir),
		Hints:  []string{},
	}

	// The site layer knows nothing about search; check the index here
	idxPath := indexPath()
	if input.Dir != "" {
		idxPath = searchIndexIn(dir)
	}
	if _, err := os.Stat(idxPath); err == nil {
		output.HasSearchIndex = true
		output.SearchIndexCurrent = indexing.IsCurrent(idxPath)
	}

	output.Hints = append(output.Hints, output.Status.Problems...)
	switch {
	case !output.HasSearchIndex:
		output.Hints = append(output.Hints, "No search index found; run refresh_archive_index or the indexer CLI to build one")
	case !output.SearchIndexCurrent:
		output.Hints = append(output.Hints, fmt.Sprintf("Search index schema is v%d but the server expects v%d; run refresh_archive_index with force", indexing.ReadVersion(idxPath), indexing.IndexSchemaVersion))
	case output.Status.DataStale:
		output.Hints = append(output.Hints, "Run refresh_archive_index to rebuild data.json and the search index")
	}
	if output.Status.Ready && len(output.Hints) == 0 {
		output.Hints = append(output.Hints, "Site looks healthy")
	}

	return nil, output, nil
}

// RegisterSiteTools registers the site diagnostics tool
func RegisterSiteTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "check_site",
			Description: "Diagnose an archive site directory: markdown files, data.json presence and staleness, index.json, search index and its schema version, with actionable hints.",
		},
		CheckSite,
	)
}
