// Package matcher scores how well a query matches a piece of page text.
package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldType is where in a page a match was found
type FieldType int

const (
	FieldTitle FieldType = iota
	FieldDescription
	FieldHeading
	FieldContent
)

// Weight is the multiplier applied to a raw score for matches in this field
func (f FieldType) Weight() float64 {
	switch f {
	case FieldTitle:
		return 5
	case FieldHeading:
		return 3
	case FieldDescription:
		return 2
	case FieldContent:
		return 1
	}
	return 0
}

func (f FieldType) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldHeading:
		return "heading"
	case FieldContent:
		return "content"
	}
	return "unknown"
}

// MarshalText encodes the field by name so JSON output reads "title", "heading", ...
func (f FieldType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Score bonuses
const (
	exactBonus     = 100
	substringBonus = 50
	wordBonus      = 25
	similarityMax  = 20
	positionMax    = 10
)

// Score returns the weighted relevance of text for query. Comparison is case-insensitive.
// An empty query scores 0.
func Score(query, text string, field FieldType) float64 {
	q := strings.ToLower(query)
	t := strings.ToLower(text)
	if q == "" {
		return 0
	}

	var score float64
	if t == q {
		score += exactBonus
	}

	if idx := strings.Index(t, q); idx >= 0 {
		score += substringBonus
		// Earlier matches score higher, down to nothing at the end of the text
		score += positionMax * (1 - float64(idx)/float64(len(t)))
	}

	if ContainsWord(t, q) {
		score += wordBonus
	}

	score += Similarity(q, t) * similarityMax

	return score * field.Weight()
}

// Similarity is a bounded character-matching ratio in [0, 1].
// Each character of a is matched against an unused equal character of b within
// max(len)/2-1 positions; the ratio is matches over the longer length.
// Not symmetric in general and not an edit distance.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	window := max(longest/2-1, 0)

	used := make([]bool, len(rb))
	matches := 0
	for i, r := range ra {
		lo := max(i-window, 0)
		hi := min(i+window, len(rb)-1)
		for j := lo; j <= hi; j++ {
			if !used[j] && rb[j] == r {
				used[j] = true
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(longest)
}

// ContainsWord reports whether query occurs in text with word boundaries on both sides
func ContainsWord(text, query string) bool {
	if query == "" {
		return false
	}

	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], query)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(query)

		if boundaryBefore(text, start, query) && boundaryAfter(text, end, query) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// A boundary exists between two runes when exactly one of them is a word character.
// Queries that start or end with punctuation therefore need a word character next to them.
func boundaryBefore(text string, start int, query string) bool {
	first, _ := utf8.DecodeRuneInString(query)
	if start == 0 {
		return isWordRune(first)
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	return isWordRune(prev) != isWordRune(first)
}

func boundaryAfter(text string, end int, query string) bool {
	last, _ := utf8.DecodeLastRuneInString(query)
	if end == len(text) {
		return isWordRune(last)
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return isWordRune(next) != isWordRune(last)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
