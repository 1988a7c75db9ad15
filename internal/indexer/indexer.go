// Package indexer builds and caches the content index for every registry page.
package indexer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
)

// Stats describes the most recently published index
type Stats struct {
	BuildID     string        `json:"build_id"`
	BuiltAt     time.Time     `json:"built_at"`
	Duration    time.Duration `json:"duration"`
	Pages       int           `json:"pages"`
	PagesFailed int           `json:"pages_failed"`
	Headings    int           `json:"headings"`
	Sections    int           `json:"sections"`
	Schema      int           `json:"schema_version"`
}

// Indexer owns the process-wide content index cache.
// The cache is either absent or a complete index; a partially built index is never visible.
type Indexer struct {
	registry     *registry.Registry
	source       content.Source
	concurrency  int
	preloadDelay time.Duration

	group singleflight.Group

	mu         sync.RWMutex
	entries    []indexing.Entry
	stats      Stats
	generation uint64
}

// Option configures an Indexer
type Option func(*Indexer)

// WithConcurrency bounds the number of simultaneous content fetches.
// By default every page is fetched at once.
func WithConcurrency(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// WithPreloadDelay postpones the background build started by Preload
func WithPreloadDelay(d time.Duration) Option {
	return func(ix *Indexer) {
		ix.preloadDelay = d
	}
}

// New creates an indexer that reads page content from source
func New(reg *registry.Registry, source content.Source, opts ...Option) *Indexer {
	ix := &Indexer{
		registry: reg,
		source:   source,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build fetches and indexes every page. A page whose fetch fails gets an empty entry;
// the build itself never fails. Entries are returned in registry order.
func (ix *Indexer) Build(ctx context.Context) []indexing.Entry {
	entries, _ := ix.build(ctx)
	return entries
}

func (ix *Indexer) build(ctx context.Context) ([]indexing.Entry, Stats) {
	start := time.Now()
	refs := ix.registry.Pages()
	entries := make([]indexing.Entry, len(refs))
	failed := make([]bool, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if ix.concurrency > 0 {
		g.SetLimit(ix.concurrency)
	}

	for i, ref := range refs {
		g.Go(func() error {
			markdown, err := ix.source.Fetch(gctx, ref.Page.ContentPath)
			if err != nil {
				log.Printf("Warning: Failed to fetch %s (%s): %v", ref.Key(), ref.Page.ContentPath, err)
				entries[i] = indexing.EmptyEntry(ref.Category, ref.Page)
				failed[i] = true
				return nil
			}
			entries[i] = indexing.BuildEntry(ref.Category, ref.Page, markdown)
			return nil
		})
	}
	// Workers never return an error
	_ = g.Wait()

	stats := Stats{
		BuildID: uuid.NewString(),
		BuiltAt: time.Now(),
		Pages:   len(entries),
		Schema:  indexing.IndexSchemaVersion,
	}
	for i, e := range entries {
		if failed[i] {
			stats.PagesFailed++
		}
		stats.Headings += len(e.Headings)
		stats.Sections += len(e.Sections)
	}
	stats.Duration = time.Since(start).Round(time.Millisecond)

	return entries, stats
}

// snapshot is a published index together with the statistics of the build that produced it
type snapshot struct {
	entries []indexing.Entry
	stats   Stats
}

// Get returns the cached index, building it on first use.
// Concurrent callers on a cold cache share a single build. The build runs to completion
// even if ctx ends first; ctx only bounds how long this caller waits.
// The returned slice is shared and must not be modified.
func (ix *Indexer) Get(ctx context.Context) ([]indexing.Entry, error) {
	entries, _, err := ix.Snapshot(ctx)
	return entries, err
}

// Snapshot is Get that also returns the statistics of the build the entries came from.
// The pair is always consistent, even when ClearCache runs concurrently; a build
// discarded by ClearCache still reports its own build id.
func (ix *Indexer) Snapshot(ctx context.Context) ([]indexing.Entry, Stats, error) {
	ix.mu.RLock()
	cached := snapshot{entries: ix.entries, stats: ix.stats}
	gen := ix.generation
	ix.mu.RUnlock()
	if cached.entries != nil {
		return cached.entries, cached.stats, nil
	}

	ch := ix.group.DoChan(buildKey(gen), func() (any, error) {
		// Another caller may have published while this one was queued
		ix.mu.RLock()
		if ix.entries != nil && ix.generation == gen {
			published := snapshot{entries: ix.entries, stats: ix.stats}
			ix.mu.RUnlock()
			return published, nil
		}
		ix.mu.RUnlock()

		built, stats := ix.build(context.WithoutCancel(ctx))

		ix.mu.Lock()
		defer ix.mu.Unlock()
		if ix.generation != gen {
			// Cleared mid-build: hand the result to waiting callers but do not cache it
			return snapshot{entries: built, stats: stats}, nil
		}
		ix.entries = built
		ix.stats = stats
		log.Printf("✓ Content index built: %d pages (%d failed), %d sections in %v",
			stats.Pages, stats.PagesFailed, stats.Sections, stats.Duration)
		return snapshot{entries: built, stats: stats}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, Stats{}, res.Err
		}
		snap := res.Val.(snapshot)
		return snap.entries, snap.stats, nil
	case <-ctx.Done():
		return nil, Stats{}, ctx.Err()
	}
}

// Preload starts building the index in the background. Failures are logged only.
func (ix *Indexer) Preload() {
	go func() {
		if ix.preloadDelay > 0 {
			time.Sleep(ix.preloadDelay)
		}
		if _, err := ix.Get(context.Background()); err != nil {
			log.Printf("Warning: Failed to preload content index: %v", err)
		}
	}()
}

// ClearCache drops the cached index and detaches any in-flight build,
// so the next Get starts a fresh build.
func (ix *Indexer) ClearCache() {
	ix.mu.Lock()
	old := ix.generation
	ix.generation++
	ix.entries = nil
	ix.stats = Stats{}
	ix.mu.Unlock()

	ix.group.Forget(buildKey(old))
}

// Stats returns statistics for the cached index. ok is false while the cache is empty.
func (ix *Indexer) Stats() (stats Stats, ok bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.stats, ix.entries != nil
}

func buildKey(generation uint64) string {
	return fmt.Sprintf("content-index-%d", generation)
}
