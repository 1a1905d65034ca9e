package indexing

// LinkEntry represents one archived link in the search index
type LinkEntry struct {
	ID          string   `json:"id"`
	File        string   `json:"file"`                  // Source markdown filename
	Category    string   `json:"category"`              // Bold heading the link sits under
	Subcategory string   `json:"subcategory,omitempty"` // Italic heading, when nested
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Breadcrumb  string   `json:"breadcrumb,omitempty"` // Full hierarchy: "File > Category > Subcategory"
	Anchor      string   `json:"anchor,omitempty"`     // Viewer anchor for the link's section
	Keywords    []string `json:"keywords,omitempty"`   // Key terms extracted from the hierarchy
}
