package indexing

import "github.com/omnieconomy/wiki-mcp/internal/registry"

// Heading is a markdown heading found in a page's raw source
type Heading struct {
	Level    int    `json:"level"`    // 1-6
	Text     string `json:"text"`
	Position int    `json:"position"` // Byte offset of the heading line in the raw markdown
	Anchor   string `json:"anchor"`
}

// Section is the plain text between one heading and the next (or end of document)
type Section struct {
	Heading  string `json:"heading"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// Entry is the derived, read-only content index record for one page
type Entry struct {
	Category registry.Category `json:"-"`
	Page     registry.Page     `json:"page"`
	Content  string            `json:"content"`
	Headings []Heading         `json:"headings"`
	Sections []Section         `json:"sections"`
}

// Key returns the "category/slug" identifier of the indexed page
func (e Entry) Key() string {
	return e.Category.ID + "/" + e.Page.Slug
}

// Empty reports whether the page produced no indexable text
func (e Entry) Empty() bool {
	return e.Content == "" && len(e.Headings) == 0
}
