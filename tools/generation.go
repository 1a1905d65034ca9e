package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidarchive/mcp-server/internal/markdown"
)

// LinkSpec is one requested link in a generated file
type LinkSpec struct {
	Title string `json:"title" jsonschema:"Display title of the video link"`
	URL   string `json:"url" jsonschema:"Video URL"`
}

// SubcategorySpec is one requested subcategory with its links
type SubcategorySpec struct {
	Title string     `json:"title" jsonschema:"Subcategory heading (rendered as an italic-only line)"`
	Links []LinkSpec `json:"links,omitempty" jsonschema:"Links under this subcategory"`
}

// CategorySpec is one requested category with direct links and subcategories
type CategorySpec struct {
	Title         string            `json:"title" jsonschema:"Category heading (rendered as a bold-only line)"`
	Links         []LinkSpec        `json:"links,omitempty" jsonschema:"Links directly under the category, before any subcategory"`
	Subcategories []SubcategorySpec `json:"subcategories,omitempty" jsonschema:"Subcategories in order"`
}

// GenerateMarkdownFileInput defines input for generate_markdown_file tool
type GenerateMarkdownFileInput struct {
	Categories         []CategorySpec `json:"categories,omitempty" jsonschema:"Categories in order"`
	UncategorizedLinks []LinkSpec     `json:"uncategorized_links,omitempty" jsonschema:"Links placed before the first category header"`
}

// GenerateMarkdownFileOutput defines output for generate_markdown_file tool
type GenerateMarkdownFileOutput struct {
	Markdown  string   `json:"markdown"`
	LinkCount int      `json:"link_count"`
	Warnings  []string `json:"warnings"`
}

// GenerateMarkdownFile renders a markdown file in the archive's line
// grammar from a requested structure. Titles and URLs are sanitized the
// same way the parser sanitizes them; entries that sanitize away are
// dropped with a warning, so parsing the output always reproduces the
// generated structure. An empty request returns the starter scaffold.
func GenerateMarkdownFile(ctx context.Context, req *mcp.CallToolRequest, input GenerateMarkdownFileInput) (*mcp.CallToolResult, GenerateMarkdownFileOutput, error) {
	output := GenerateMarkdownFileOutput{Warnings: []string{}}

	if len(input.Categories) == 0 && len(input.UncategorizedLinks) == 0 {
		starter, err := defaultDataProvider.ReadFile(starterAsset)
		if err != nil {
			return nil, output, fmt.Errorf("failed to read starter template: %w", err)
		}
		doc := markdown.Parse(string(starter))
		output.Markdown = string(starter)
		output.LinkCount = len(doc.Links)
		output.Warnings = append(output.Warnings, "No structure requested; returning the starter scaffold")
		return nil, output, nil
	}

	doc := &markdown.Document{}

	cleanLinks := func(links []LinkSpec, where string) []markdown.Link {
		out := make([]markdown.Link, 0, len(links))
		for _, l := range links {
			title := markdown.Sanitize(l.Title)
			url := markdown.Sanitize(l.URL)
			if title == "" || url == "" {
				output.Warnings = append(output.Warnings,
					fmt.Sprintf("Dropped link with empty title or url %s (title=%q, url=%q)", where, l.Title, l.URL))
				continue
			}
			out = append(out, markdown.Link{Title: title, URL: url})
		}
		return out
	}

	doc.UncategorizedLinks = cleanLinks(input.UncategorizedLinks, "before the first category")

	for _, cat := range input.Categories {
		title := markdown.Sanitize(cat.Title)
		if title == "" {
			output.Warnings = append(output.Warnings,
				fmt.Sprintf("Dropped category with empty title (%d link(s) and %d subcategorie(s) discarded with it)",
					len(cat.Links), len(cat.Subcategories)))
			continue
		}

		category := &markdown.Category{
			Title: title,
			Links: cleanLinks(cat.Links, fmt.Sprintf("in category %q", title)),
		}

		for _, sub := range cat.Subcategories {
			subTitle := markdown.Sanitize(sub.Title)
			if subTitle == "" {
				output.Warnings = append(output.Warnings,
					fmt.Sprintf("Dropped subcategory with empty title in category %q (%d link(s) discarded with it)", title, len(sub.Links)))
				continue
			}
			category.Subcategories = append(category.Subcategories, &markdown.Subcategory{
				Title: subTitle,
				Links: cleanLinks(sub.Links, fmt.Sprintf("in subcategory %q of %q", subTitle, title)),
			})
		}

		doc.Categories = append(doc.Categories, category)
	}

	output.Markdown = markdown.Render(doc)

	// Count what the parser will see, not what was requested
	output.LinkCount = len(markdown.Parse(output.Markdown).Links)

	return nil, output, nil
}

// RegisterGenerationTools registers the markdown generation tool
func RegisterGenerationTools(server *mcp.Server) error {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "generate_markdown_file",
			Description: "Generate a markdown file in the archive's line grammar (bold category headers, italic subcategory headers, numbered link lines) from a requested structure. Sanitizes titles and URLs, drops empty entries with warnings, and returns a starter scaffold for an empty request.",
		},
		GenerateMarkdownFile,
	)

	return nil
}
