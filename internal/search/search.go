// Package search ranks wiki pages for a query.
//
// Search is the synchronous pass over page titles and descriptions. SearchContent
// repeats it and, when asked, also scans the cached content index for matching
// headings and sections. Each call is independent; merging a later content pass over
// an earlier synchronous one is up to the caller (see Session).
package search

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/internal/matcher"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

const (
	DefaultMaxResults    = 10
	DefaultExcerptWindow = 100

	categoryBonus = 5
)

// Index provides the content index. *indexer.Indexer satisfies it.
type Index interface {
	Get(ctx context.Context) ([]indexing.Entry, error)
}

// Match records one reason a page matched
type Match struct {
	Type     matcher.FieldType `json:"type"`
	Text     string            `json:"text"`
	Context  string            `json:"context,omitempty"`
	Position int               `json:"position"`
	Anchor   string            `json:"anchor,omitempty"`

	score float64
}

// Result is one ranked page
type Result struct {
	Category registry.Category `json:"category"`
	Page     registry.Page     `json:"page"`
	Matches  []Match           `json:"matches"`
	Score    float64           `json:"score"`
	Excerpt  string            `json:"excerpt,omitempty"`
}

// Options controls a single search call
type Options struct {
	MaxResults     int
	IncludeContent bool
}

func (o Options) limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// Searcher runs queries against a registry and, optionally, its content index
type Searcher struct {
	registry      *registry.Registry
	index         Index
	excerptWindow int
}

// Option configures a Searcher
type Option func(*Searcher)

// WithExcerptWindow sets the number of characters shown around a content match
func WithExcerptWindow(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.excerptWindow = n
		}
	}
}

// New creates a searcher. index may be nil, in which case content search finds nothing.
func New(reg *registry.Registry, index Index, opts ...Option) *Searcher {
	s := &Searcher{
		registry:      reg,
		index:         index,
		excerptWindow: DefaultExcerptWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// query is a normalised search string
type query struct {
	raw   string
	lower string
	words []string
}

func parseQuery(raw string) (query, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return query{}, false
	}

	q := query{raw: raw, lower: strings.ToLower(raw)}
	for _, w := range strings.Fields(q.lower) {
		if len([]rune(w)) > 1 {
			q.words = append(q.words, w)
		}
	}
	return q, true
}

// find returns the byte offset of the first occurrence of the whole query, or else of
// the first query word, in text. ok is false when nothing matches.
func (q query) find(text string) (pos int, ok bool) {
	lower := strings.ToLower(text)
	if i := strings.Index(lower, q.lower); i >= 0 {
		return i, true
	}
	for _, w := range q.words {
		if i := strings.Index(lower, w); i >= 0 {
			return i, true
		}
	}
	return 0, false
}

// Search runs the synchronous pass over titles and descriptions only.
// Blank queries return no results.
func (s *Searcher) Search(raw string, opts Options) []Result {
	q, ok := parseQuery(raw)
	if !ok {
		return []Result{}
	}

	results := make([]Result, 0)
	for _, ref := range s.registry.Pages() {
		if r, ok := s.scorePage(q, ref); ok {
			results = append(results, finish(r))
		}
	}
	return rank(results, opts.limit())
}

// SearchContent runs the title/description pass and, if opts.IncludeContent is set,
// scans the content index for heading and section matches too. An unavailable index
// is treated as empty. Blank queries return no results without touching the index.
func (s *Searcher) SearchContent(ctx context.Context, raw string, opts Options) []Result {
	q, ok := parseQuery(raw)
	if !ok {
		return []Result{}
	}

	var entries map[string]indexing.Entry
	if opts.IncludeContent && s.index != nil {
		entries = s.loadEntries(ctx)
	}

	results := make([]Result, 0)
	for _, ref := range s.registry.Pages() {
		r, matched := s.scorePage(q, ref)

		if entry, ok := entries[ref.Key()]; ok {
			if s.scoreContent(q, entry, &r) {
				if !matched && strings.Contains(strings.ToLower(ref.Category.Title), q.lower) {
					r.Score += categoryBonus
				}
				matched = true
			}
		}

		if matched {
			results = append(results, finish(r))
		}
	}
	return rank(results, opts.limit())
}

func (s *Searcher) loadEntries(ctx context.Context) map[string]indexing.Entry {
	entries, err := s.index.Get(ctx)
	if err != nil {
		log.Printf("Warning: Content index unavailable, searching titles only: %v", err)
		return nil
	}

	byKey := make(map[string]indexing.Entry, len(entries))
	for _, e := range entries {
		byKey[e.Key()] = e
	}
	return byKey
}

// scorePage applies the title/description pass to one page
func (s *Searcher) scorePage(q query, ref registry.PageRef) (Result, bool) {
	r := Result{Category: ref.Category, Page: ref.Page}

	titlePos, titleMatch := q.find(ref.Page.Title)
	descPos, descMatch := q.find(ref.Page.Description)
	if !titleMatch && !descMatch {
		return r, false
	}

	titleScore := matcher.Score(q.raw, ref.Page.Title, matcher.FieldTitle)
	descScore := matcher.Score(q.raw, ref.Page.Description, matcher.FieldDescription)
	r.Score = titleScore + descScore

	if titleMatch {
		r.Matches = append(r.Matches, Match{
			Type:     matcher.FieldTitle,
			Text:     ref.Page.Title,
			Position: titlePos,
			score:    titleScore,
		})
	}
	if descMatch {
		r.Matches = append(r.Matches, Match{
			Type:     matcher.FieldDescription,
			Text:     ref.Page.Description,
			Position: descPos,
			score:    descScore,
		})
	}

	if strings.Contains(strings.ToLower(ref.Category.Title), q.lower) {
		r.Score += categoryBonus
	}
	return r, true
}

// scoreContent adds heading and section matches from entry to r.
// It reports whether anything matched.
func (s *Searcher) scoreContent(q query, entry indexing.Entry, r *Result) bool {
	matched := false

	for _, h := range entry.Headings {
		if _, ok := q.find(h.Text); !ok {
			continue
		}
		score := matcher.Score(q.raw, h.Text, matcher.FieldHeading)
		r.Score += score
		r.Matches = append(r.Matches, Match{
			Type:     matcher.FieldHeading,
			Text:     h.Text,
			Position: h.Position,
			Anchor:   h.Anchor,
			score:    score,
		})
		matched = true
	}

	for _, sec := range entry.Sections {
		pos, ok := q.find(sec.Content)
		if !ok {
			continue
		}
		score := matcher.Score(q.raw, sec.Content, matcher.FieldContent)
		r.Score += score
		r.Matches = append(r.Matches, Match{
			Type:     matcher.FieldContent,
			Text:     sec.Heading,
			Context:  ExtractContext(sec.Content, pos, s.excerptWindow),
			Position: sec.Position,
			Anchor:   indexing.CreateAnchor(sec.Heading),
			score:    score,
		})
		matched = true
	}

	return matched
}

// finish picks the excerpt: the first content match's context, else the raw text of
// the highest scoring match.
func finish(r Result) Result {
	for _, m := range r.Matches {
		if m.Type == matcher.FieldContent {
			r.Excerpt = m.Context
			return r
		}
	}

	best := -1
	for i, m := range r.Matches {
		if best < 0 || m.score > r.Matches[best].score {
			best = i
		}
	}
	if best >= 0 {
		r.Excerpt = r.Matches[best].Text
	}
	return r
}

// rank sorts by descending score, keeping registry order for ties, and truncates
func rank(results []Result, limit int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

