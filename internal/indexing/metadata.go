package indexing

import (
	"regexp"
	"strings"
)

var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// StripMarkdownLinks removes markdown link syntax, keeping only the text
// Example: "[Text](url)" -> "Text"
func StripMarkdownLinks(text string) string {
	return markdownLinkRegex.ReplaceAllString(text, "$1")
}

// CreateAnchor creates a URL anchor from heading text
// Example: "Lottery Payouts" -> "lottery-payouts"
func CreateAnchor(text string) string {
	anchor := strings.ToLower(strings.TrimSpace(StripMarkdownLinks(text)))
	anchor = strings.ReplaceAll(anchor, " ", "-")
	// Keep only a-z, 0-9 and hyphens
	anchor = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, anchor)
	return anchor
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "as": true, "by": true, "is": true,
	"it": true, "be": true, "with": true, "from": true, "that": true,
	"you": true, "your": true, "can": true, "are": true, "this": true,
}

// ExtractKeywords extracts up to 10 key terms from a title and the start of its content.
// Keywords keep first-seen order.
func ExtractKeywords(title, content string) []string {
	words := strings.Fields(strings.ToLower(title))

	contentPreview := content
	if len(content) > 200 {
		contentPreview = content[:200]
	}
	words = append(words, strings.Fields(strings.ToLower(contentPreview))...)

	seen := make(map[string]bool)
	keywords := make([]string, 0, 10)
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 10 {
			break
		}
	}

	return keywords
}
