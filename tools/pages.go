package tools

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

// PageSummary represents lightweight page info for listing
type PageSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ModVersion  string `json:"mod_version,omitempty"`
	Outdated    bool   `json:"outdated"`
}

// CategorySummary is a category with its pages in display order
type CategorySummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Pages       []PageSummary `json:"pages"`
}

// ListWikiCategoriesInput defines input for list_wiki_categories tool
type ListWikiCategoriesInput struct {
	// No input needed - returns the whole registry
}

// ListWikiCategoriesOutput defines output for list_wiki_categories tool
type ListWikiCategoriesOutput struct {
	Version    string            `json:"version"`
	Categories []CategorySummary `json:"categories"`
	Popular    []PageLink        `json:"popular"`
	PageCount  int               `json:"page_count"`
}

// GetWikiPageInput defines input for get_wiki_page tool
type GetWikiPageInput struct {
	Category string `json:"category" jsonschema:"Category id, e.g. 'users'"`
	Slug     string `json:"slug" jsonschema:"Page slug within the category, e.g. 'atm-blocks'"`
}

// PageHeading is an entry of a page's table of contents
type PageHeading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// GetWikiPageOutput defines output for get_wiki_page tool
type GetWikiPageOutput struct {
	Category    string        `json:"category"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Markdown    string        `json:"markdown"`
	Headings    []PageHeading `json:"headings"`
	ModVersion  string        `json:"mod_version,omitempty"`
	LastUpdated string        `json:"last_updated,omitempty"`
	UpdateNotes string        `json:"update_notes,omitempty"`
	Outdated    bool          `json:"outdated"`
	VersionNote string        `json:"version_note,omitempty"`
}

func (w *Wiki) summarizePage(cat registry.Category, p registry.Page) PageSummary {
	s := PageSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		URL:         pageURL(cat.ID, p.Slug, ""),
		Outdated:    registry.IsOutdated(p, w.currentVersion()),
	}
	if p.Meta != nil {
		s.ModVersion = p.Meta.ModVersion
	}
	return s
}

// ListWikiCategories returns every category and page in the wiki
func (w *Wiki) ListWikiCategories(ctx context.Context, req *mcp.CallToolRequest, input ListWikiCategoriesInput) (*mcp.CallToolResult, ListWikiCategoriesOutput, error) {
	categories := w.Registry.Categories()
	output := ListWikiCategoriesOutput{
		Version:    w.Registry.Version(),
		Categories: make([]CategorySummary, 0, len(categories)),
	}

	for _, cat := range categories {
		summary := CategorySummary{
			ID:          cat.ID,
			Title:       cat.Title,
			Description: cat.Description,
			Pages:       make([]PageSummary, 0, len(cat.Pages)),
		}
		for _, p := range cat.Pages {
			summary.Pages = append(summary.Pages, w.summarizePage(cat, p))
		}
		output.PageCount += len(cat.Pages)
		output.Categories = append(output.Categories, summary)
	}

	output.Popular = w.PopularPages()

	return nil, output, nil
}

// PopularPages links the pages featured on the wiki landing page
func (w *Wiki) PopularPages() []PageLink {
	refs := w.Registry.Popular()
	links := make([]PageLink, 0, len(refs))
	for _, ref := range refs {
		links = append(links, newPageLink(ref))
	}
	return links
}

// GetWikiPage returns a page's markdown together with its outline and version status
func (w *Wiki) GetWikiPage(ctx context.Context, req *mcp.CallToolRequest, input GetWikiPageInput) (*mcp.CallToolResult, GetWikiPageOutput, error) {
	if _, ok := w.Registry.Category(input.Category); !ok {
		return nil, GetWikiPageOutput{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, input.Category)
	}
	page, ok := w.Registry.Page(input.Category, input.Slug)
	if !ok {
		return nil, GetWikiPageOutput{}, fmt.Errorf("%w: %s/%s", ErrPageNotFound, input.Category, input.Slug)
	}

	markdown, err := w.Source.Fetch(ctx, page.ContentPath)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, GetWikiPageOutput{}, fmt.Errorf("%w: no content at %s", ErrPageNotFound, page.ContentPath)
		}
		return nil, GetWikiPageOutput{}, fmt.Errorf("failed to load %s/%s: %w", input.Category, input.Slug, err)
	}

	current := w.currentVersion()
	output := GetWikiPageOutput{
		Category:    input.Category,
		Slug:        page.Slug,
		Title:       page.Title,
		Description: page.Description,
		URL:         pageURL(input.Category, page.Slug, ""),
		Markdown:    markdown,
		Outdated:    registry.IsOutdated(page, current),
	}

	headings := indexing.ExtractHeadings(markdown)
	output.Headings = make([]PageHeading, 0, len(headings))
	for _, h := range headings {
		output.Headings = append(output.Headings, PageHeading{
			Level: h.Level,
			Text:  h.Text,
			URL:   pageURL(input.Category, page.Slug, h.Anchor),
		})
	}

	if page.Meta != nil {
		output.ModVersion = page.Meta.ModVersion
		output.LastUpdated = page.Meta.LastUpdated
		output.UpdateNotes = page.Meta.UpdateNotes
		if current != "" {
			output.VersionNote = registry.VersionDifference(page.Meta.ModVersion, current)
		}
	} else {
		output.VersionNote = "no version information"
	}

	return nil, output, nil
}

// RegisterPageTools registers the page browsing tools
func (w *Wiki) RegisterPageTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_wiki_categories",
			Description: "List all wiki categories and their pages, with popular pages and whether each page is outdated for the current mod version",
		},
		w.ListWikiCategories,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_wiki_page",
			Description: "Get the markdown of one wiki page by category and slug, with its headings and version status",
		},
		w.GetWikiPage,
	)

	log.Printf("✓ Page tools registered")
}
