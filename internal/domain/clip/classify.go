package clip

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<(html|body|div|span|p|a|table|ul|ol|li|img|br|h[1-6])[\s>/]`)

	markdownPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^#{1,6}\s`),       // headings
		regexp.MustCompile("(?s)```.+```"),        // fenced code
		regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`), // links
		regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`),  // list items
	}
)

// DetectTextType classifies a text payload as plain text, HTML, or
// markdown. Classification is heuristic; when in doubt it falls back to
// plain text.
func DetectTextType(s string) ContentType {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TypeText
	}

	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<?xml") {
		return TypeHTML
	}
	if strings.HasPrefix(trimmed, "<") && htmlTagPattern.MatchString(trimmed) {
		return TypeHTML
	}

	for _, p := range markdownPatterns {
		if p.MatchString(trimmed) {
			return TypeMarkdown
		}
	}

	return TypeText
}
