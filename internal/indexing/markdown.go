package indexing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

type replacement struct {
	re   *regexp.Regexp
	with string
}

// reductions are applied in order; later patterns assume earlier ones already ran
// (links are only collapsed after images so "![alt](src)" keeps its alt text).
var reductions = []replacement{
	{regexp.MustCompile("(?s)```.*?```"), " "},                 // fenced code
	{regexp.MustCompile("`[^`]+`"), " "},                       // inline code
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`), "$1"},       // images
	{markdownLinkRegex, "$1"},                                   // links
	{regexp.MustCompile(`<[^>]+>`), " "},                        // raw tags
	{regexp.MustCompile(fmt.Sprintf(`(?m)^#{1,%d}\s+`, MaxHeadingLevel)), ""}, // heading markers
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},                 // bold
	{regexp.MustCompile(`__(.*?)__`), "$1"},                     // bold
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},                     // italic
	{regexp.MustCompile(`_(.*?)_`), "$1"},                       // italic
	{regexp.MustCompile(`(?m)^(-{3,}|_{3,}|\*{3,})$`), ""},      // horizontal rules
	{regexp.MustCompile(`(?m)^\s*>\s+`), ""},                    // block quotes
	{regexp.MustCompile(`(?m)^\s*[-*+]\s+`), ""},                // unordered list items
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), ""},                // ordered list items
}

var headingRegex = regexp.MustCompile(fmt.Sprintf(`(?m)^(#{1,%d})\s+(.+)$`, MaxHeadingLevel))

// StripMarkdown reduces markdown to single-spaced plain text.
// It is total: any input yields a result.
func StripMarkdown(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	for _, r := range reductions {
		text = r.re.ReplaceAllString(text, r.with)
	}
	return strings.Join(strings.Fields(text), " ")
}

// ExtractHeadings scans the raw markdown for line-anchored headings.
// Positions are byte offsets into markdown.
func ExtractHeadings(markdown string) []Heading {
	matches := headingRegex.FindAllStringSubmatchIndex(markdown, -1)
	headings := make([]Heading, 0, len(matches))

	for _, m := range matches {
		text := strings.TrimSpace(markdown[m[4]:m[5]])
		headings = append(headings, Heading{
			Level:    m[3] - m[2],
			Text:     text,
			Position: m[0],
			Anchor:   CreateAnchor(text),
		})
	}

	return headings
}

// ExtractSections splits markdown into one section per heading.
// Each section runs from its heading to the next heading, or the end of the document,
// and includes its own heading line before reduction.
func ExtractSections(markdown string, headings []Heading) []Section {
	sections := make([]Section, 0, len(headings))

	for i, h := range headings {
		end := len(markdown)
		if i+1 < len(headings) {
			end = headings[i+1].Position
		}

		sections = append(sections, Section{
			Heading:  h.Text,
			Content:  StripMarkdown(markdown[h.Position:end]),
			Position: h.Position,
		})
	}

	return sections
}

// BuildEntry derives the content index entry for a page from its raw markdown
func BuildEntry(category registry.Category, page registry.Page, markdown string) Entry {
	headings := ExtractHeadings(markdown)
	return Entry{
		Category: category,
		Page:     page,
		Content:  StripMarkdown(markdown),
		Headings: headings,
		Sections: ExtractSections(markdown, headings),
	}
}

// EmptyEntry is the entry recorded for a page whose content could not be fetched
func EmptyEntry(category registry.Category, page registry.Page) Entry {
	return Entry{
		Category: category,
		Page:     page,
		Headings: []Heading{},
		Sections: []Section{},
	}
}
