// Package markdown implements the line grammar of the archive's markdown
// files: a bold-only line opens a category, an italic-only line opens a
// subcategory inside it, and markdown link lines attach video links to
// whichever grouping is currently open.
package markdown

// Link is one archived video: a display title and its URL.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Subcategory groups links under an italic header inside a category.
type Subcategory struct {
	Title string `json:"title"`
	Links []Link `json:"links"`
}

// Category groups links under a bold header. Links holds only the links
// that appear before the category's first subcategory header; everything
// after that lives in Subcategories.
type Category struct {
	Title         string         `json:"title"`
	Links         []Link         `json:"links"`
	Subcategories []*Subcategory `json:"subcategories"`
}

// FlatLink is the flattened projection of one attached link, annotated
// with the titles of its enclosing groupings. Category is the literal
// "Uncategorized" for links collected before the first category header.
// Subcategory is nil (JSON null) unless the link sits inside one.
type FlatLink struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`
}

// Document is the parsed structure of one markdown file. Every link in
// Links also appears exactly once under Categories or in
// UncategorizedLinks, in source order. The document is built in a single
// pass and not mutated after Parse returns.
type Document struct {
	Categories         []*Category `json:"categories"`
	UncategorizedLinks []Link      `json:"uncategorizedLinks"`
	Links              []FlatLink  `json:"links"`
}
