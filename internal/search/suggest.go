package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

// pageTitles adapts registry pages to fuzzy.Source
type pageTitles []registry.PageRef

func (p pageTitles) String(i int) string { return p[i].Page.Title }
func (p pageTitles) Len() int            { return len(p) }

// Suggest returns up to n pages whose titles fuzzily match query, best first.
// It is meant for "did you mean" hints when Search finds nothing.
func (s *Searcher) Suggest(query string, n int) []registry.PageRef {
	query = strings.TrimSpace(query)
	if query == "" || n <= 0 {
		return nil
	}

	pages := pageTitles(s.registry.Pages())
	matches := fuzzy.FindFrom(query, pages)

	suggestions := make([]registry.PageRef, 0, min(n, len(matches)))
	for _, m := range matches {
		if len(suggestions) == n {
			break
		}
		suggestions = append(suggestions, pages[m.Index])
	}
	return suggestions
}
