package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/indexer"
	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/internal/matcher"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

// fakeIndex counts calls and returns canned entries
type fakeIndex struct {
	entries []indexing.Entry
	err     error
	calls   atomic.Int32
}

func (f *fakeIndex) Get(ctx context.Context) ([]indexing.Entry, error) {
	f.calls.Add(1)
	return f.entries, f.err
}

func newRegistry(t *testing.T, categories ...registry.Category) *registry.Registry {
	t.Helper()
	reg, err := registry.New(categories)
	require.NoError(t, err)
	return reg
}

func defaultSearcher(t *testing.T) *Searcher {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	return New(reg, indexer.New(reg, content.NewEmbeddedSource()))
}

func slugs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Page.Slug
	}
	return out
}

func findResult(results []Result, slug string) (Result, bool) {
	for _, r := range results {
		if r.Page.Slug == slug {
			return r, true
		}
	}
	return Result{}, false
}

func TestSearch_BlankQuery(t *testing.T) {
	idx := &fakeIndex{}
	reg, err := registry.Default()
	require.NoError(t, err)
	s := New(reg, idx)

	for _, q := range []string{"", "   ", "\t\n"} {
		assert.Empty(t, s.Search(q, Options{}))
		assert.Empty(t, s.SearchContent(context.Background(), q, Options{IncludeContent: true}))
	}
	assert.Zero(t, idx.calls.Load(), "blank queries never touch the index")
}

func TestSearch_ExactTitleMatchOutranksDescription(t *testing.T) {
	reg := newRegistry(t, registry.Category{
		ID:    "users",
		Title: "User Guide",
		Pages: []registry.Page{
			{Slug: "banking", Title: "Banking", Description: "Deposit coins using ATM Blocks"},
			{Slug: "atm-blocks", Title: "ATM Blocks", Description: "How to use ATM Blocks"},
		},
	})
	s := New(reg, nil)

	results := s.Search("atm BLOCKS", Options{MaxResults: 8})
	require.Equal(t, []string{"atm-blocks", "banking"}, slugs(results))

	top := results[0]
	assert.GreaterOrEqual(t, top.Score, 500.0)
	require.NotEmpty(t, top.Matches)
	assert.Equal(t, matcher.FieldTitle, top.Matches[0].Type)
	assert.Equal(t, "ATM Blocks", top.Matches[0].Text)
	assert.Greater(t, top.Score, results[1].Score)
}

func TestSearch_WordMatch(t *testing.T) {
	s := defaultSearcher(t)

	// Neither page contains the whole phrase, each contains a word
	results := s.Search("money limits", Options{})
	assert.Contains(t, slugs(results), "getting-money")
	assert.Contains(t, slugs(results), "daily-limits")
}

func TestSearch_SingleCharacterWordsIgnored(t *testing.T) {
	s := defaultSearcher(t)
	assert.Empty(t, s.Search("x y z", Options{}))
}

func TestSearch_Truncation(t *testing.T) {
	reg := newRegistry(t, registry.Category{
		ID:    "items",
		Title: "Guide",
		Pages: []registry.Page{
			{Slug: "recoinage", Title: "Recoinage"},
			{Slug: "coin-purse", Title: "Coin Purse"},
			{Slug: "coins", Title: "Coins"},
			{Slug: "coin", Title: "Coin"},
			{Slug: "old-coin", Title: "Old Coin"},
		},
	})
	s := New(reg, nil)

	all := s.Search("coin", Options{})
	require.Len(t, all, 5)

	results := s.Search("coin", Options{MaxResults: 2})
	require.Equal(t, []string{"coin", "coin-purse"}, slugs(results))
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, all[:2], results)
}

func TestSearch_ResultsSortedAndBounded(t *testing.T) {
	s := defaultSearcher(t)

	for _, q := range []string{"atm", "money", "the", "guide", "how to", "server", "mod"} {
		for _, limit := range []int{1, 3, 8} {
			results := s.Search(q, Options{MaxResults: limit})
			assert.LessOrEqual(t, len(results), limit, q)
			for i := 1; i < len(results); i++ {
				assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, q)
			}
			for _, r := range results {
				assert.GreaterOrEqual(t, r.Score, 0.0)
			}
		}
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	pages := make([]registry.Page, 15)
	for i := range pages {
		pages[i] = registry.Page{Slug: "page-" + string(rune('a'+i)), Title: "Wallet page"}
	}
	s := New(newRegistry(t, registry.Category{ID: "c", Title: "C", Pages: pages}), nil)

	assert.Len(t, s.Search("wallet", Options{}), DefaultMaxResults)
}

func TestSearch_ExcerptKeepsRawMatchText(t *testing.T) {
	desc := "Deposit coins into a savings account and collect interest every in-game day, paid out at dawn"
	reg := newRegistry(t, registry.Category{
		ID: "users", Title: "User Guide",
		Pages: []registry.Page{{Slug: "savings", Title: "Savings", Description: desc}},
	})
	s := New(reg, &fakeIndex{}, WithExcerptWindow(20))

	results := s.Search("interest", Options{})
	require.Len(t, results, 1)
	assert.Equal(t, desc, results[0].Excerpt)
}

func TestSearch_CategoryBonus(t *testing.T) {
	page := registry.Page{Slug: "tools", Title: "Admin Tools"}
	reg := newRegistry(t,
		registry.Category{ID: "admin", Title: "Admin Guide", Pages: []registry.Page{page}},
		registry.Category{ID: "misc", Title: "Miscellaneous", Pages: []registry.Page{page}},
	)
	s := New(reg, nil)

	results := s.Search("admin", Options{})
	require.Len(t, results, 2)
	assert.Equal(t, "admin", results[0].Category.ID)
	assert.InDelta(t, categoryBonus, results[0].Score-results[1].Score, 1e-9)
}

func TestSearch_TiesKeepRegistryOrder(t *testing.T) {
	reg := newRegistry(t, registry.Category{
		ID:    "c",
		Title: "C",
		Pages: []registry.Page{
			{Slug: "first", Title: "Wallet"},
			{Slug: "second", Title: "Wallet"},
			{Slug: "third", Title: "Wallet"},
		},
	})
	s := New(reg, nil)

	assert.Equal(t, []string{"first", "second", "third"}, slugs(s.Search("wallet", Options{})))
}

func TestSearchContent_ContentOnlyMatch(t *testing.T) {
	s := defaultSearcher(t)

	assert.Empty(t, s.Search("lottery", Options{MaxResults: 8}), "no title or description mentions it")

	results := s.SearchContent(context.Background(), "lottery", Options{MaxResults: 8, IncludeContent: true})
	r, ok := findResult(results, "atm-blocks")
	require.True(t, ok, "found via its content: %v", slugs(results))

	var heading *Match
	for i := range r.Matches {
		if r.Matches[i].Type == matcher.FieldHeading {
			heading = &r.Matches[i]
			break
		}
	}
	require.NotNil(t, heading)
	assert.Equal(t, "Lottery Payouts", heading.Text)
	assert.Equal(t, "lottery-payouts", heading.Anchor)

	assert.Contains(t, strings.ToLower(r.Excerpt), "lottery")
}

func TestSearchContent_WithoutContentMatchesSync(t *testing.T) {
	idx := &fakeIndex{}
	s := New(newRegistry(t, registry.Category{
		ID: "users", Title: "User Guide",
		Pages: []registry.Page{{Slug: "atm-blocks", Title: "ATM Blocks", Description: "How to use ATM Blocks"}},
	}), idx)

	sync := s.Search("atm", Options{})
	async := s.SearchContent(context.Background(), "atm", Options{})
	assert.Equal(t, sync, async)
	assert.Zero(t, idx.calls.Load())
}

func TestSearchContent_IndexFailureFallsBack(t *testing.T) {
	idx := &fakeIndex{err: errors.New("index down")}
	reg := newRegistry(t, registry.Category{
		ID: "users", Title: "User Guide",
		Pages: []registry.Page{{Slug: "atm-blocks", Title: "ATM Blocks", Description: "How to use ATM Blocks"}},
	})
	s := New(reg, idx)

	results := s.SearchContent(context.Background(), "atm", Options{IncludeContent: true})
	assert.Equal(t, []string{"atm-blocks"}, slugs(results))
	assert.Equal(t, int32(1), idx.calls.Load())
}

func TestSearchContent_AccumulatesMatches(t *testing.T) {
	cat := registry.Category{ID: "users", Title: "User Guide"}
	page := registry.Page{Slug: "atm-blocks", Title: "ATM Blocks", Description: "How to use ATM Blocks"}
	cat.Pages = []registry.Page{page}
	reg := newRegistry(t, cat)

	md := "# ATM Blocks\n\nPlace an ATM anywhere.\n\n## Lottery Payouts\n\nRedeem winning lottery tickets here."
	idx := &fakeIndex{entries: []indexing.Entry{indexing.BuildEntry(cat, page, md)}}
	s := New(reg, idx, WithExcerptWindow(40))

	sync := s.Search("lottery", Options{})
	assert.Empty(t, sync)

	results := s.SearchContent(context.Background(), "lottery", Options{IncludeContent: true})
	require.Len(t, results, 1)

	types := make([]matcher.FieldType, 0)
	for _, m := range results[0].Matches {
		types = append(types, m.Type)
	}
	assert.Equal(t, []matcher.FieldType{matcher.FieldHeading, matcher.FieldContent}, types)

	section := results[0].Matches[1]
	assert.Equal(t, "Lottery Payouts", section.Text)
	assert.Equal(t, section.Context, results[0].Excerpt, "excerpt comes from the content match")
	assert.LessOrEqual(t, len(section.Context), 40+2*len(ellipsis))

	withTitle := s.SearchContent(context.Background(), "atm", Options{IncludeContent: true})
	require.Len(t, withTitle, 1)
	assert.Greater(t, withTitle[0].Score, s.Search("atm", Options{})[0].Score, "content matches add to the title score")
}

func TestExtractContext(t *testing.T) {
	long := strings.Repeat("a", 50) + "MATCH" + strings.Repeat("b", 50)

	tests := []struct {
		name   string
		text   string
		pos    int
		window int
		want   string
	}{
		{"fits", "short text", 0, 100, "short text"},
		{"middle", long, 50, 20, "..." + long[40:60] + "..."},
		{"start", long, 0, 20, long[:10] + "..."},
		{"end", long, len(long), 20, "..." + long[len(long)-10:]},
		{"empty", "", 0, 20, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContext(tt.text, tt.pos, tt.window))
		})
	}
}

func TestExtractContext_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("é", 40)
	for pos := 0; pos < len(text); pos++ {
		assert.True(t, utf8.ValidString(ExtractContext(text, pos, 7)), "pos %d", pos)
	}
}

func TestSession_DropsStaleContentPass(t *testing.T) {
	s := defaultSearcher(t)
	session := NewSession(s, 20*time.Millisecond)

	delivered := make(chan string, 2)
	deliverFor := func(q string) func([]Result) {
		return func([]Result) { delivered <- q }
	}

	ctx := context.Background()
	first := session.Run(ctx, "atm", Options{IncludeContent: true}, deliverFor("atm"))
	assert.NotEmpty(t, first, "synchronous results are returned immediately")

	session.Run(ctx, "lottery", Options{IncludeContent: true}, deliverFor("lottery"))

	select {
	case q := <-delivered:
		assert.Equal(t, "lottery", q)
	case <-time.After(5 * time.Second):
		t.Fatal("content pass never delivered")
	}

	select {
	case q := <-delivered:
		t.Fatalf("stale content pass delivered for %q", q)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSession_CancelledContextDeliversNothing(t *testing.T) {
	s := defaultSearcher(t)
	session := NewSession(s, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var delivered atomic.Bool
	session.Run(ctx, "atm", Options{IncludeContent: true}, func([]Result) { delivered.Store(true) })

	time.Sleep(50 * time.Millisecond)
	assert.False(t, delivered.Load())
}

func TestSuggest(t *testing.T) {
	s := defaultSearcher(t)

	suggestions := s.Suggest("atmblk", 3)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "atm-blocks", suggestions[0].Page.Slug)

	assert.Nil(t, s.Suggest("", 3))
	assert.Nil(t, s.Suggest("atm", 0))
	assert.LessOrEqual(t, len(s.Suggest("e", 2)), 2)
}
