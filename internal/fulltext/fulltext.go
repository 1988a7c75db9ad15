// Package fulltext offers BM25 keyword search over the content index.
//
// The bleve index is kept in memory and rebuilt whenever the content index it was
// built from is replaced. Searches never block on a rebuild of a newer index: the
// current index is swapped atomically and the old one is closed once in-flight
// searches finish.
package fulltext

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/omnieconomy/wiki-mcp/internal/indexer"
	"github.com/omnieconomy/wiki-mcp/internal/indexing"
)

const (
	DefaultLimit = 10
	MaxLimit     = 20
)

// ErrClosed is returned by Search after Close
var ErrClosed = errors.New("full-text index closed")

// Source provides content index entries together with the build they came from.
// *indexer.Indexer satisfies it.
type Source interface {
	Snapshot(ctx context.Context) ([]indexing.Entry, indexer.Stats, error)
}

// Hit is one ranked section (or headingless page)
type Hit struct {
	CategoryID string  `json:"category"`
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Heading    string  `json:"heading,omitempty"`
	Anchor     string  `json:"anchor,omitempty"`
	Score      float64 `json:"score"`
}

// generation is an index together with the content build it was made from
type generation struct {
	index   Index
	buildID string
	docs    int
}

// Searcher manages the current full-text index
type Searcher struct {
	source Source

	// current holds the active index (atomic for lock-free reads)
	current atomic.Pointer[generation]

	// refreshMu serialises rebuilds; searches never take it
	refreshMu sync.Mutex

	// wg tracks in-flight searches so a replaced index is closed only when idle
	wg sync.WaitGroup

	closed atomic.Bool

	build func([]indexing.Entry) (Index, int, error)
}

// New creates a searcher over source. The index is built on first use.
func New(source Source) *Searcher {
	return &Searcher{source: source, build: buildIndex}
}

// Search runs a bleve match query. limit defaults to DefaultLimit and is capped at MaxLimit.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Hit, int, error) {
	if s.closed.Load() {
		return nil, 0, ErrClosed
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	// Track in-flight searches before loading the index
	s.wg.Add(1)
	defer s.wg.Done()

	gen, err := s.ensure(ctx)
	if err != nil {
		return nil, 0, err
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := gen.index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["category"].(string); ok {
			hit.CategoryID = v
		}
		if v, ok := h.Fields["slug"].(string); ok {
			hit.Slug = v
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["heading"].(string); ok {
			hit.Heading = v
		}
		if v, ok := h.Fields["anchor"].(string); ok {
			hit.Anchor = v
		}
		hits = append(hits, hit)
	}

	return hits, int(res.Total), nil
}

// Refresh builds the index for the current content build if it is not built yet
func (s *Searcher) Refresh(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.wg.Add(1)
	defer s.wg.Done()

	_, err := s.ensure(ctx)
	return err
}

// DocCount is the number of documents in the current index, 0 before the first build
func (s *Searcher) DocCount() int {
	gen := s.current.Load()
	if gen == nil {
		return 0
	}
	return gen.docs
}

// ensure returns an index matching the source's current content build, rebuilding if needed
func (s *Searcher) ensure(ctx context.Context) (*generation, error) {
	entries, stats, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("content index unavailable: %w", err)
	}

	if gen := s.current.Load(); gen != nil && gen.buildID == stats.BuildID {
		return gen, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another search may have rebuilt while this one waited
	if gen := s.current.Load(); gen != nil && gen.buildID == stats.BuildID {
		return gen, nil
	}

	start := time.Now()
	idx, docs, err := s.build(entries)
	if err != nil {
		return nil, err
	}
	gen := &generation{index: idx, buildID: stats.BuildID, docs: docs}

	old := s.current.Swap(gen)
	log.Printf("✓ Full-text index built: %d documents in %v", docs, time.Since(start).Round(time.Millisecond))

	if old != nil {
		go s.retire(old)
	}
	return gen, nil
}

// retire closes a replaced index once searches that may still use it are done
func (s *Searcher) retire(old *generation) {
	s.wg.Wait()
	if err := old.index.Close(); err != nil {
		log.Printf("Warning: Error closing old full-text index: %v", err)
	}
}

// Close releases the current index after in-flight searches complete
func (s *Searcher) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	gen := s.current.Swap(nil)
	if gen == nil {
		return nil
	}
	s.wg.Wait()
	return gen.index.Close()
}
