package tools

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omnieconomy/wiki-mcp/internal/indexer"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
	"github.com/omnieconomy/wiki-mcp/internal/search"
)

const maxSuggestions = 3

// MatchSummary is one reason a page matched
type MatchSummary struct {
	Type    string `json:"type"` // title, description, heading or content
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	URL     string `json:"url,omitempty"`
}

// SearchResult is a ranked page
type SearchResult struct {
	Category      string         `json:"category"`
	CategoryTitle string         `json:"category_title"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	URL           string         `json:"url"`
	Score         float64        `json:"score"`
	Excerpt       string         `json:"excerpt,omitempty"`
	Matches       []MatchSummary `json:"matches"`
}

// PageLink identifies a page by category and slug
type PageLink struct {
	Category string `json:"category"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

func newPageLink(ref registry.PageRef) PageLink {
	return PageLink{
		Category: ref.Category.ID,
		Slug:     ref.Page.Slug,
		Title:    ref.Page.Title,
		URL:      pageURL(ref.Category.ID, ref.Page.Slug, ""),
	}
}

// SearchWikiInput defines input for search_wiki tool
type SearchWikiInput struct {
	Query          string `json:"query" jsonschema:"Search query, matched against page titles and descriptions"`
	MaxResults     int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to the configured search.max_results)"`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema:"Also search page headings and body text (optional, defaults to false)"`
}

// SearchWikiOutput defines output for search_wiki tool
type SearchWikiOutput struct {
	Query       string         `json:"query"`
	Results     []SearchResult `json:"results"`
	Suggestions []PageLink     `json:"suggestions,omitempty"`
}

// SearchWikiFulltextInput defines input for search_wiki_fulltext tool
type SearchWikiFulltextInput struct {
	Query      string `json:"query" jsonschema:"Keywords to rank wiki sections by (BM25)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of sections (optional, defaults to 10, max 20)"`
}

// FulltextHit is a ranked wiki section
type FulltextHit struct {
	Category string  `json:"category"`
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	Heading  string  `json:"heading,omitempty"`
	URL      string  `json:"url"`
	Score    float64 `json:"score"`
}

// SearchWikiFulltextOutput defines output for search_wiki_fulltext tool
type SearchWikiFulltextOutput struct {
	Query     string        `json:"query"`
	Hits      []FulltextHit `json:"hits"`
	TotalHits int           `json:"total_hits"`
}

// RefreshWikiIndexInput defines input for refresh_wiki_index tool
type RefreshWikiIndexInput struct {
	// No input needed - always rebuilds
}

// IndexStats describes the content index build
type IndexStats struct {
	BuildID     string `json:"build_id"`
	BuiltAt     string `json:"built_at"` // RFC 3339
	DurationMs  int64  `json:"duration_ms"`
	Pages       int    `json:"pages"`
	PagesFailed int    `json:"pages_failed"`
	Headings    int    `json:"headings"`
	Sections    int    `json:"sections"`
}

// NewIndexStats converts indexer stats into their wire form
func NewIndexStats(s indexer.Stats) IndexStats {
	return IndexStats{
		BuildID:     s.BuildID,
		BuiltAt:     s.BuiltAt.Format(time.RFC3339),
		DurationMs:  s.Duration.Milliseconds(),
		Pages:       s.Pages,
		PagesFailed: s.PagesFailed,
		Headings:    s.Headings,
		Sections:    s.Sections,
	}
}

// RefreshWikiIndexOutput defines output for refresh_wiki_index tool
type RefreshWikiIndexOutput struct {
	Stats   IndexStats `json:"stats"`
	Message string     `json:"message"`
}

// NewSearchResult converts a ranked page into its wire form
func NewSearchResult(r search.Result) SearchResult {
	out := SearchResult{
		Category:      r.Category.ID,
		CategoryTitle: r.Category.Title,
		Slug:          r.Page.Slug,
		Title:         r.Page.Title,
		Description:   r.Page.Description,
		URL:           pageURL(r.Category.ID, r.Page.Slug, ""),
		Score:         r.Score,
		Excerpt:       r.Excerpt,
		Matches:       make([]MatchSummary, 0, len(r.Matches)),
	}
	for _, m := range r.Matches {
		ms := MatchSummary{Type: m.Type.String(), Text: m.Text, Context: m.Context}
		if m.Anchor != "" {
			ms.URL = pageURL(r.Category.ID, r.Page.Slug, m.Anchor)
		}
		out.Matches = append(out.Matches, ms)
	}
	return out
}

// SearchWiki ranks wiki pages for a query
func (w *Wiki) SearchWiki(ctx context.Context, req *mcp.CallToolRequest, input SearchWikiInput) (*mcp.CallToolResult, SearchWikiOutput, error) {
	opts := search.Options{
		MaxResults:     w.maxResults(input.MaxResults),
		IncludeContent: input.IncludeContent,
	}

	var results []search.Result
	if input.IncludeContent {
		results = w.Searcher.SearchContent(ctx, input.Query, opts)
	} else {
		results = w.Searcher.Search(input.Query, opts)
	}

	output := SearchWikiOutput{
		Query:   input.Query,
		Results: make([]SearchResult, 0, len(results)),
	}
	for _, r := range results {
		output.Results = append(output.Results, NewSearchResult(r))
	}

	if len(results) == 0 {
		output.Suggestions = w.Suggestions(input.Query)
	}

	w.Recent.Add(ctx, input.Query)

	return nil, output, nil
}

// Suggestions returns "did you mean" page links for a query that found nothing
func (w *Wiki) Suggestions(query string) []PageLink {
	var links []PageLink
	for _, ref := range w.Searcher.Suggest(query, maxSuggestions) {
		links = append(links, newPageLink(ref))
	}
	return links
}

// SearchWikiFulltext ranks wiki sections with BM25
func (w *Wiki) SearchWikiFulltext(ctx context.Context, req *mcp.CallToolRequest, input SearchWikiFulltextInput) (*mcp.CallToolResult, SearchWikiFulltextOutput, error) {
	hits, total, err := w.Fulltext.Search(ctx, input.Query, input.MaxResults)
	if err != nil {
		return nil, SearchWikiFulltextOutput{}, fmt.Errorf("full-text search failed: %w", err)
	}

	output := SearchWikiFulltextOutput{
		Query:     input.Query,
		Hits:      make([]FulltextHit, 0, len(hits)),
		TotalHits: total,
	}
	for _, h := range hits {
		output.Hits = append(output.Hits, FulltextHit{
			Category: h.CategoryID,
			Slug:     h.Slug,
			Title:    h.Title,
			Heading:  h.Heading,
			URL:      pageURL(h.CategoryID, h.Slug, h.Anchor),
			Score:    h.Score,
		})
	}

	return nil, output, nil
}

// RefreshWikiIndex drops the cached content index and rebuilds it
func (w *Wiki) RefreshWikiIndex(ctx context.Context, req *mcp.CallToolRequest, input RefreshWikiIndexInput) (*mcp.CallToolResult, RefreshWikiIndexOutput, error) {
	start := time.Now()
	w.Indexer.ClearCache()

	if _, err := w.Indexer.Get(ctx); err != nil {
		return nil, RefreshWikiIndexOutput{}, fmt.Errorf("refresh failed: %w", err)
	}

	stats, _ := w.Indexer.Stats()
	output := RefreshWikiIndexOutput{
		Stats:   NewIndexStats(stats),
		Message: fmt.Sprintf("Wiki index rebuilt in %v: %d pages, %d sections (%d pages failed to load)",
			time.Since(start).Round(time.Millisecond), stats.Pages, stats.Sections, stats.PagesFailed),
	}

	return nil, output, nil
}

// RegisterSearchTools registers wiki search tools
func (w *Wiki) RegisterSearchTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_wiki",
			Description: "Search the OmniEconomy wiki. Ranks pages by title and description; set include_content to also match section headings and body text. Suggests close page titles when nothing matches.",
		},
		w.SearchWiki,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_wiki_fulltext",
			Description: "Keyword search over every wiki section using BM25 ranking. Returns section headings with links.",
		},
		w.SearchWikiFulltext,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "refresh_wiki_index",
			Description: "Reload all wiki pages and rebuild the search index",
		},
		w.RefreshWikiIndex,
	)

	log.Printf("✓ Search tools registered")
}
