package markdown

import (
	"fmt"
	"strings"
)

// Render writes a document back out in the archive's line grammar:
// uncategorized links first, then each category header with its direct
// links and subcategories. Link lines are numbered within each grouping,
// matching the hand-written archive files. Rendering a parsed document
// and parsing the result yields the same structure, provided titles
// contain no closing bracket and URLs no closing parenthesis.
func Render(doc *Document) string {
	var b strings.Builder

	writeLinks := func(links []Link) {
		for i, l := range links {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, l.Title, l.URL)
		}
	}

	writeLinks(doc.UncategorizedLinks)

	for _, cat := range doc.Categories {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**%s**\n", cat.Title)
		writeLinks(cat.Links)
		for _, sub := range cat.Subcategories {
			fmt.Fprintf(&b, "\n*%s*\n", sub.Title)
			writeLinks(sub.Links)
		}
	}

	return b.String()
}
