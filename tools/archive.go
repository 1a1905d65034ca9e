package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidarchive/mcp-server/internal/markdown"
)

// ArchiveFileSummary is lightweight per-file info for listing
type ArchiveFileSummary struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	LinkCount  int    `json:"link_count"`
	Categories int    `json:"categories"`
}

// ListArchiveFilesInput defines input for list_archive_files tool
type ListArchiveFilesInput struct {
	// No input needed - returns all files
}

// ListArchiveFilesOutput defines output for list_archive_files tool
type ListArchiveFilesOutput struct {
	Files []ArchiveFileSummary `json:"files"`
	Count int                  `json:"count"`
}

// ListArchiveFiles returns every archived markdown file with its link and
// category counts
func ListArchiveFiles(ctx context.Context, req *mcp.CallToolRequest, input ListArchiveFilesInput) (*mcp.CallToolResult, ListArchiveFilesOutput, error) {
	files, err := loadArchiveData()
	if err != nil {
		return nil, ListArchiveFilesOutput{}, fmt.Errorf("failed to load archive data: %w", err)
	}

	summaries := make([]ArchiveFileSummary, 0, len(files))
	for _, file := range files {
		summary := ArchiveFileSummary{
			Name:      file.Name,
			Path:      file.Path,
			LinkCount: file.LinkCount,
		}
		if file.Content != nil {
			summary.Categories = len(file.Content.Categories)
		}
		summaries = append(summaries, summary)
	}

	return nil, ListArchiveFilesOutput{
		Files: summaries,
		Count: len(summaries),
	}, nil
}

// GetFileStructureInput defines input for get_file_structure tool
type GetFileStructureInput struct {
	Name string `json:"name" jsonschema:"Markdown filename as listed by list_archive_files (e.g. movies.md)"`
}

// GetFileStructureOutput defines output for get_file_structure tool
type GetFileStructureOutput struct {
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	LinkCount int                `json:"link_count"`
	Content   *markdown.Document `json:"content"`
}

// GetFileStructure returns one file's parsed category/subcategory/link tree
func GetFileStructure(ctx context.Context, req *mcp.CallToolRequest, input GetFileStructureInput) (*mcp.CallToolResult, GetFileStructureOutput, error) {
	files, err := loadArchiveData()
	if err != nil {
		return nil, GetFileStructureOutput{}, fmt.Errorf("failed to load archive data: %w", err)
	}

	for _, file := range files {
		if file.Name == input.Name {
			return nil, GetFileStructureOutput{
				Name:      file.Name,
				Path:      file.Path,
				LinkCount: file.LinkCount,
				Content:   file.Content,
			}, nil
		}
	}

	return nil, GetFileStructureOutput{}, fmt.Errorf("file '%s' not found in archive data (use list_archive_files to see available files)", input.Name)
}

// CategoryCount is one category's aggregate link count across all files
type CategoryCount struct {
	Title string `json:"title"`
	Links int    `json:"links"`
}

// GetArchiveStatsInput defines input for get_archive_stats tool
type GetArchiveStatsInput struct {
	TopCategories int `json:"top_categories,omitempty" jsonschema:"How many of the largest categories to return (optional, defaults to 5)"`
}

// GetArchiveStatsOutput defines output for get_archive_stats tool
type GetArchiveStatsOutput struct {
	Files              int             `json:"files"`
	Links              int             `json:"links"`
	Categories         int             `json:"categories"`
	Subcategories      int             `json:"subcategories"`
	UncategorizedLinks int             `json:"uncategorized_links"`
	TopCategories      []CategoryCount `json:"top_categories"`
}

// GetArchiveStats computes totals over the whole archive
func GetArchiveStats(ctx context.Context, req *mcp.CallToolRequest, input GetArchiveStatsInput) (*mcp.CallToolResult, GetArchiveStatsOutput, error) {
	files, err := loadArchiveData()
	if err != nil {
		return nil, GetArchiveStatsOutput{}, fmt.Errorf("failed to load archive data: %w", err)
	}

	output := GetArchiveStatsOutput{
		Files:         len(files),
		TopCategories: []CategoryCount{},
	}

	byCategory := make(map[string]int)
	for _, file := range files {
		output.Links += file.LinkCount
		if file.Content == nil {
			continue
		}
		output.UncategorizedLinks += len(file.Content.UncategorizedLinks)
		for _, cat := range file.Content.Categories {
			output.Categories++
			output.Subcategories += len(cat.Subcategories)

			count := len(cat.Links)
			for _, sub := range cat.Subcategories {
				count += len(sub.Links)
			}
			byCategory[cat.Title] += count
		}
	}

	top := input.TopCategories
	if top <= 0 {
		top = 5
	}
	for title, links := range byCategory {
		output.TopCategories = append(output.TopCategories, CategoryCount{Title: title, Links: links})
	}
	sort.Slice(output.TopCategories, func(i, j int) bool {
		a, b := output.TopCategories[i], output.TopCategories[j]
		if a.Links != b.Links {
			return a.Links > b.Links
		}
		return a.Title < b.Title
	})
	if len(output.TopCategories) > top {
		output.TopCategories = output.TopCategories[:top]
	}

	return nil, output, nil
}

// RegisterArchiveTools registers the data.json-backed archive tools
func RegisterArchiveTools(server *mcp.Server) error {
	// Tool 1: list_archive_files
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_archive_files",
			Description: "List every markdown file in the archive with its viewer path, link count, and category count. Use this to discover what the archive contains before fetching a file's structure.",
		},
		ListArchiveFiles,
	)

	// Tool 2: get_file_structure
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_file_structure",
			Description: "Get one archived file's full parsed structure: categories, subcategories, links, uncategorized links, and the flat annotated link list.",
		},
		GetFileStructure,
	)

	// Tool 3: get_archive_stats
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_archive_stats",
			Description: "Archive-wide totals: files, links, categories, subcategories, uncategorized links, and the largest categories by link count.",
		},
		GetArchiveStats,
	)

	return nil
}
