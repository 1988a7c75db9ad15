package indexing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

func TestStripMarkdownLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple markdown link", "[Text](https://example.com)", "Text"},
		{"link in middle", "Start [Link Text](https://example.com) End", "Start Link Text End"},
		{"multiple links", "[First](url1) and [Second](url2)", "First and Second"},
		{"no link", "Plain text without links", "Plain text without links"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, indexing.StripMarkdownLinks(tt.input))
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced code removed",
			input:    "before\n```java\nEconomy.give(player, 10);\n```\nafter",
			expected: "before after",
		},
		{
			name:     "inline code removed",
			input:    "Run `/balance` to check",
			expected: "Run to check",
		},
		{
			name:     "image collapses to alt text",
			input:    "![ATM block](/img/atm.png) in world",
			expected: "ATM block in world",
		},
		{
			name:     "link collapses to text",
			input:    "See [the commands page](/users/commands).",
			expected: "See the commands page.",
		},
		{
			name:     "raw tags stripped",
			input:    "<div class=\"note\">Careful</div>",
			expected: "Careful",
		},
		{
			name:     "heading markers stripped",
			input:    "## Lottery Payouts\nText",
			expected: "Lottery Payouts Text",
		},
		{
			name:     "emphasis unwrapped",
			input:    "**bold** __also bold__ *italic* _also italic_",
			expected: "bold also bold italic also italic",
		},
		{
			name:     "horizontal rules dropped",
			input:    "above\n---\nbelow\n***\nend",
			expected: "above below end",
		},
		{
			name:     "block quote and list markers",
			input:    "> quoted\n- one\n* two\n+ three\n1. first\n22. second",
			expected: "quoted one two three first second",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  lots \t of\n\n\nspace  ",
			expected: "lots of space",
		},
		{
			name:     "windows line endings",
			input:    "# Title\r\n---\r\nbody",
			expected: "Title body",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, indexing.StripMarkdown(tt.input))
		})
	}
}

func TestExtractHeadings(t *testing.T) {
	md := "# ATM Blocks\nIntro text\n\n## Lottery Payouts\nPayout table\n### Odds\nnot#a heading\n####### too deep\n"

	headings := indexing.ExtractHeadings(md)
	require.Len(t, headings, 3)

	assert.Equal(t, indexing.Heading{Level: 1, Text: "ATM Blocks", Position: 0, Anchor: "atm-blocks"}, headings[0])
	assert.Equal(t, 2, headings[1].Level)
	assert.Equal(t, "Lottery Payouts", headings[1].Text)
	assert.Equal(t, strings.Index(md, "## Lottery"), headings[1].Position)
	assert.Equal(t, "lottery-payouts", headings[1].Anchor)
	assert.Equal(t, 3, headings[2].Level)
	assert.Equal(t, "Odds", headings[2].Text)
}

func TestExtractHeadings_None(t *testing.T) {
	assert.Empty(t, indexing.ExtractHeadings("just text\nwith lines"))
	assert.Empty(t, indexing.ExtractHeadings(""))
}

func TestExtractHeadings_DeepestLevel(t *testing.T) {
	headings := indexing.ExtractHeadings("###### Deep\n\n####### Too deep\n")
	require.Len(t, headings, 1)
	assert.Equal(t, indexing.MaxHeadingLevel, headings[0].Level)
	assert.Equal(t, "Deep", headings[0].Text)
}

func TestExtractSections(t *testing.T) {
	md := "Preamble is not a section\n# First\nalpha **beta**\n## Second\ngamma\n"
	headings := indexing.ExtractHeadings(md)
	sections := indexing.ExtractSections(md, headings)

	require.Len(t, sections, len(headings))
	assert.Equal(t, indexing.Section{Heading: "First", Content: "First alpha beta", Position: headings[0].Position}, sections[0])
	assert.Equal(t, indexing.Section{Heading: "Second", Content: "Second gamma", Position: headings[1].Position}, sections[1])
}

func TestExtractSections_NoHeadings(t *testing.T) {
	assert.Empty(t, indexing.ExtractSections("plain body", nil))
}

func TestBuildEntry(t *testing.T) {
	cat := registry.Category{ID: "users", Title: "User Guide"}
	page := registry.Page{Slug: "atm-blocks", Title: "ATM Blocks"}
	md := "# ATM Blocks\nUse the [ATM](/atm) to withdraw.\n## Lottery Payouts\nWin big.\n"

	entry := indexing.BuildEntry(cat, page, md)

	assert.Equal(t, "users/atm-blocks", entry.Key())
	assert.Equal(t, "ATM Blocks Use the ATM to withdraw. Lottery Payouts Win big.", entry.Content)
	assert.Len(t, entry.Headings, 2)
	assert.Len(t, entry.Sections, 2)
	assert.False(t, entry.Empty())
}

func TestEmptyEntry(t *testing.T) {
	entry := indexing.EmptyEntry(registry.Category{ID: "users"}, registry.Page{Slug: "x"})
	assert.True(t, entry.Empty())
	assert.NotNil(t, entry.Headings)
	assert.NotNil(t, entry.Sections)
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		wantMin int
	}{
		{"title and content", "ATM Blocks Configuration", "This section explains how ATM blocks dispense banknotes", 3},
		{"filters stop words", "The Best Way To Configure", "This is a test of the system", 2},
		{"empty input", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords := indexing.ExtractKeywords(tt.title, tt.content)

			assert.GreaterOrEqual(t, len(keywords), tt.wantMin)
			assert.LessOrEqual(t, len(keywords), 10)
			for _, kw := range keywords {
				assert.NotContains(t, []string{"the", "a", "is", "to"}, kw)
			}
		})
	}
}

func TestCreateAnchor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Lottery Payouts", "lottery-payouts"},
		{"Need Help?", "need-help"},
		{"[Linked](url) Heading", "linked-heading"},
		{"  Spaces  ", "spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, indexing.CreateAnchor(tt.input))
		})
	}
}
