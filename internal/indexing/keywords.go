package indexing

import (
	"strings"
)

// ExtractKeywords extracts key terms from a link's title and hierarchy
func ExtractKeywords(parts ...string) []string {
	var words []string
	for _, part := range parts {
		words = append(words, strings.Fields(strings.ToLower(part))...)
	}

	// Filter out common stop words and short words
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "as": true, "by": true, "is": true,
		"it": true, "be": true, "with": true, "from": true, "that": true,
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) > 2 && !stopWords[word] && !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

// CreateAnchor creates a viewer anchor from a heading title
// Example: "Science Fiction Classics" -> "science-fiction-classics"
func CreateAnchor(text string) string {
	anchor := strings.ToLower(strings.TrimSpace(text))
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, anchor)
	return anchor
}
