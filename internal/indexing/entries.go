package indexing

import (
	"fmt"
	"strings"

	"github.com/vidarchive/mcp-server/internal/archive"
)

// FromFiles derives one search entry per archived link, in file order.
// Entry IDs are "<filename>:<position>" where position counts the file's
// links from zero, so rebuilding over the same data yields the same IDs.
func FromFiles(files []archive.FileData) []LinkEntry {
	var entries []LinkEntry

	for _, file := range files {
		if file.Content == nil {
			continue
		}
		page := strings.TrimSuffix(file.Name, ".md")

		for i, link := range file.Content.Links {
			entry := LinkEntry{
				ID:       fmt.Sprintf("%s:%d", file.Name, i),
				File:     file.Name,
				Category: link.Category,
				Title:    link.Title,
				URL:      link.URL,
			}

			crumbs := []string{page, link.Category}
			section := link.Category
			if link.Subcategory != nil {
				entry.Subcategory = *link.Subcategory
				crumbs = append(crumbs, *link.Subcategory)
				section = *link.Subcategory
			}
			entry.Breadcrumb = strings.Join(crumbs, " > ")
			entry.Anchor = CreateAnchor(section)
			entry.Keywords = ExtractKeywords(entry.Title, entry.Category, entry.Subcategory)

			entries = append(entries, entry)
		}
	}

	return entries
}
