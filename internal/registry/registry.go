package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

//go:embed data/categories.json
var embeddedCatalog []byte

// ErrInvalidRegistry is returned when the category catalog fails validation.
var ErrInvalidRegistry = errors.New("invalid wiki registry")

// PageMeta tracks which mod version a page was last written against
type PageMeta struct {
	ModVersion  string `json:"mod_version"`
	LastUpdated string `json:"last_updated,omitempty"`
	UpdateNotes string `json:"update_notes,omitempty"`
}

// Page is one documentation article, identified by slug within its category
type Page struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentPath string    `json:"content_path"`
	Meta        *PageMeta `json:"meta,omitempty"`
}

// Category is a named, ordered group of pages
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Pages       []Page `json:"pages"`
}

// Catalog is the on-disk representation of the registry
type Catalog struct {
	Categories  []Category `json:"categories"`
	Version     string     `json:"version,omitempty"`
	LastUpdated string     `json:"last_updated,omitempty"`
}

// PageRef pairs a page with the category that owns it
type PageRef struct {
	Category Category `json:"category"`
	Page     Page     `json:"page"`
}

// Key returns the "category/slug" identifier of the page
func (r PageRef) Key() string {
	return r.Category.ID + "/" + r.Page.Slug
}

// Registry is the immutable, ordered set of wiki categories and pages.
// Declaration order is preserved and is the tie-break order used by search.
type Registry struct {
	categories []Category
	byID       map[string]int
	version    string
}

// New builds a registry from categories, rejecting duplicate category ids
// and duplicate page slugs within a category.
func New(categories []Category) (*Registry, error) {
	r := &Registry{
		categories: make([]Category, len(categories)),
		byID:       make(map[string]int, len(categories)),
	}

	for i, cat := range categories {
		if _, dup := r.byID[cat.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidRegistry, cat.ID)
		}
		slugs := make(map[string]struct{}, len(cat.Pages))
		for _, p := range cat.Pages {
			if _, dup := slugs[p.Slug]; dup {
				return nil, fmt.Errorf("%w: duplicate page slug %q in category %q", ErrInvalidRegistry, p.Slug, cat.ID)
			}
			slugs[p.Slug] = struct{}{}
		}

		// Copy pages so callers cannot mutate the registry through their slice
		cat.Pages = append([]Page(nil), cat.Pages...)
		r.categories[i] = cat
		r.byID[cat.ID] = i
	}

	return r, nil
}

// Load validates a JSON catalog against the registry schema and builds a registry from it
func Load(data []byte) (*Registry, error) {
	if err := validateCatalog(data); err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse wiki catalog: %w", err)
	}

	r, err := New(catalog.Categories)
	if err != nil {
		return nil, err
	}
	r.version = catalog.Version
	return r, nil
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Load(embeddedCatalog)
})

// Default returns the registry compiled into the binary. It is loaded once per process.
func Default() (*Registry, error) {
	return loadDefault()
}

// Version is the mod version the catalog was last published for
func (r *Registry) Version() string {
	return r.version
}

// Categories returns all categories in declaration order
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Category looks up a category by id
func (r *Registry) Category(id string) (Category, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Page looks up a page by category id and slug
func (r *Registry) Page(categoryID, slug string) (Page, bool) {
	cat, ok := r.Category(categoryID)
	if !ok {
		return Page{}, false
	}
	for _, p := range cat.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// Pages flattens the registry into page references, category then page order
func (r *Registry) Pages() []PageRef {
	var refs []PageRef
	for _, cat := range r.categories {
		for _, p := range cat.Pages {
			refs = append(refs, PageRef{Category: cat, Page: p})
		}
	}
	return refs
}

// Popular returns the first page of every category.
// This is a static placeholder until page views are tracked.
func (r *Registry) Popular() []PageRef {
	refs := make([]PageRef, 0, len(r.categories))
	for _, cat := range r.categories {
		if len(cat.Pages) == 0 {
			continue
		}
		refs = append(refs, PageRef{Category: cat, Page: cat.Pages[0]})
	}
	return refs
}
