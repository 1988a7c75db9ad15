package search

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// ExtractContext returns about window bytes of text centred on pos, with an ellipsis on
// each side that does not reach the start or end of text. Cuts never split a UTF-8 sequence.
func ExtractContext(text string, pos, window int) string {
	if text == "" {
		return ""
	}
	if window <= 0 {
		window = DefaultExcerptWindow
	}
	pos = min(max(pos, 0), len(text))

	start := max(pos-window/2, 0)
	end := min(pos+window/2, len(text))

	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	excerpt := strings.TrimSpace(text[start:end])
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if end < len(text) {
		excerpt += ellipsis
	}
	return excerpt
}
