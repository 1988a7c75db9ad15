package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/omnieconomy/wiki-mcp/internal/config"
	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/fulltext"
	"github.com/omnieconomy/wiki-mcp/internal/indexer"
	"github.com/omnieconomy/wiki-mcp/internal/recent"
	"github.com/omnieconomy/wiki-mcp/internal/registry"
	"github.com/omnieconomy/wiki-mcp/internal/search"
)

var (
	// ErrPageNotFound is returned for an unknown category/slug pair
	ErrPageNotFound = errors.New("wiki page not found")

	// ErrCategoryNotFound is returned for an unknown category id
	ErrCategoryNotFound = errors.New("wiki category not found")
)

// Wiki holds everything the MCP tools need. Handlers are methods so a server
// (or a test) can register tools against its own instance.
type Wiki struct {
	Registry *registry.Registry
	Source   content.Source
	Indexer  *indexer.Indexer
	Searcher *search.Searcher
	Fulltext *fulltext.Searcher
	Recent   *recent.Store

	// CurrentVersion is the mod release pages are checked against.
	// Empty means the catalog version.
	CurrentVersion string

	// MaxResults is used when a tool call does not ask for a result count
	MaxResults int
}

// Settings tunes a Wiki. Zero values use package defaults.
type Settings struct {
	MaxResults     int
	ExcerptWindow  int
	PreloadDelay   time.Duration
	CurrentVersion string
}

// NewWiki wires the search stack over a registry and content source
func NewWiki(reg *registry.Registry, source content.Source, kv recent.KV, settings Settings) *Wiki {
	ix := indexer.New(reg, source, indexer.WithPreloadDelay(settings.PreloadDelay))
	return &Wiki{
		Registry:       reg,
		Source:         source,
		Indexer:        ix,
		Searcher:       search.New(reg, ix, search.WithExcerptWindow(settings.ExcerptWindow)),
		Fulltext:       fulltext.New(ix),
		Recent:         recent.NewStore(kv),
		CurrentVersion: settings.CurrentVersion,
		MaxResults:     settings.MaxResults,
	}
}

// Open builds a Wiki from configuration: the embedded registry, the configured content
// source and recent-search store, and a content watcher when enabled for a dir source.
// The returned func closes everything Open created.
func Open(ctx context.Context, cfg *config.Config) (*Wiki, func(), error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load wiki registry: %w", err)
	}

	source, err := cfg.NewSource()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open content source: %w", err)
	}

	kv, store, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open recent search store: %w", err)
	}

	w := NewWiki(reg, source, kv, Settings{
		MaxResults:     cfg.Search.MaxResults,
		ExcerptWindow:  cfg.Search.ExcerptWindow,
		PreloadDelay:   cfg.Search.PreloadDelay.Duration,
		CurrentVersion: cfg.Mod.CurrentVersion,
	})

	watchCtx, stopWatch := context.WithCancel(ctx)
	if cfg.Content.Watch {
		if dir, ok := source.(*content.DirSource); ok {
			if err := w.Indexer.Watch(watchCtx, dir.Root()); err != nil {
				log.Printf("Warning: Content hot reload disabled: %v", err)
			}
		} else {
			log.Printf("Warning: content.watch only applies to the %q source", config.SourceDir)
		}
	}

	closeAll := func() {
		stopWatch()
		w.Close()
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing recent search store: %v", err)
		}
	}
	return w, closeAll, nil
}

func (w *Wiki) currentVersion() string {
	if w.CurrentVersion != "" {
		return w.CurrentVersion
	}
	return w.Registry.Version()
}

func (w *Wiki) maxResults(requested int) int {
	if requested > 0 {
		return requested
	}
	if w.MaxResults > 0 {
		return w.MaxResults
	}
	return search.DefaultMaxResults
}

// Close releases the full-text index
func (w *Wiki) Close() error {
	if w.Fulltext == nil {
		return nil
	}
	if err := w.Fulltext.Close(); err != nil {
		log.Printf("Warning: Error closing full-text index: %v", err)
		return err
	}
	return nil
}

// pageURL is the wiki front-end route for a page, optionally with a heading anchor
func pageURL(categoryID, slug, anchor string) string {
	url := "/" + categoryID + "/" + slug
	if anchor != "" {
		url += "#" + anchor
	}
	return url
}
