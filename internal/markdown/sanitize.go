package markdown

import (
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`[\n\r\t]+`)
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
)

// Sanitize prepares a raw title or URL for embedding as a JSON string
// value: every run of newlines, carriage returns, and tabs collapses to a
// single space, the remaining control characters (0x00-0x1F, 0x7F-0x9F)
// are stripped, and surrounding whitespace is trimmed. Structural escaping
// of quotes and backslashes is left to the JSON encoder.
func Sanitize(s string) string {
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = controlChars.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
