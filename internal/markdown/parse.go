package markdown

import (
	"regexp"
	"strings"
)

// Line patterns, tested in priority order. Category and subcategory
// delimiters must span the entire trimmed line; a bold or italic span
// followed by other text is ordinary prose. Link lines may carry an
// optional ordered-list prefix, and anything after the first closing
// parenthesis is ignored.
var (
	categoryLine    = regexp.MustCompile(`^\*\*(.+?)\*\*$`)
	subcategoryLine = regexp.MustCompile(`^\*(.+?)\*$`)
	linkLine        = regexp.MustCompile(`^(?:\d+\.\s*)?\[(.*?)\]\((.*?)\)`)
)

// Parse classifies every line of one markdown file in a single forward
// pass and returns the resulting document.
//
// A category header opens a new category and clears the open subcategory.
// A subcategory header only matches while a category is open; otherwise
// the line falls through to the link test. A link line attaches to the
// open subcategory, else to the open category's direct links, else, only
// if no category header has appeared yet, to UncategorizedLinks. Links
// whose title or URL sanitizes to the empty string are discarded without
// trace. Every attached link is mirrored into the flat Links sequence
// with its enclosing titles.
//
// Once the first category header has been seen, a link line with no open
// category matches no attachment branch and is silently dropped. With the
// current grammar a category never closes, so the branch cannot fire, but
// the classification keeps it explicit.
func Parse(text string) *Document {
	doc := &Document{
		Categories:         []*Category{},
		UncategorizedLinks: []Link{},
		Links:              []FlatLink{},
	}

	var currentCategory *Category
	var currentSubcategory *Subcategory
	seenCategory := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := categoryLine.FindStringSubmatch(line); m != nil {
			seenCategory = true
			currentCategory = &Category{
				Title:         Sanitize(m[1]),
				Links:         []Link{},
				Subcategories: []*Subcategory{},
			}
			doc.Categories = append(doc.Categories, currentCategory)
			currentSubcategory = nil
			continue
		}

		if m := subcategoryLine.FindStringSubmatch(line); m != nil && currentCategory != nil {
			currentSubcategory = &Subcategory{
				Title: Sanitize(m[1]),
				Links: []Link{},
			}
			currentCategory.Subcategories = append(currentCategory.Subcategories, currentSubcategory)
			continue
		}

		m := linkLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		link := Link{Title: Sanitize(m[1]), URL: Sanitize(m[2])}
		if link.Title == "" || link.URL == "" {
			continue
		}

		switch {
		case currentSubcategory != nil:
			currentSubcategory.Links = append(currentSubcategory.Links, link)
			sub := currentSubcategory.Title
			doc.Links = append(doc.Links, FlatLink{
				Title:       link.Title,
				URL:         link.URL,
				Category:    currentCategory.Title,
				Subcategory: &sub,
			})
		case currentCategory != nil:
			currentCategory.Links = append(currentCategory.Links, link)
			doc.Links = append(doc.Links, FlatLink{
				Title:    link.Title,
				URL:      link.URL,
				Category: currentCategory.Title,
			})
		case !seenCategory:
			doc.UncategorizedLinks = append(doc.UncategorizedLinks, link)
			doc.Links = append(doc.Links, FlatLink{
				Title:    link.Title,
				URL:      link.URL,
				Category: "Uncategorized",
			})
		}
	}

	return doc
}
