package fulltext

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en" // "en" analyzer
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/omnieconomy/wiki-mcp/internal/indexing"
)

// Index abstracts the bleve.Index operations used here so tests can substitute a mock
type Index interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	DocCount() (uint64, error)
	Close() error
}

// document is one indexed unit: a section of a page, or a whole page without headings
type document struct {
	Category string   `json:"category"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Heading  string   `json:"heading"`
	Anchor   string   `json:"anchor"`
	Body     string   `json:"body"`
	Keywords []string `json:"keywords"`
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("category", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("slug", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("anchor", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("heading", textFieldMapping)
	docMapping.AddFieldMappingsAt("body", textFieldMapping)
	docMapping.AddFieldMappingsAt("keywords", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	// BM25 needs bleve v2.5.0+
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// documents flattens index entries into bleve documents keyed by "category/slug#anchor"
func documents(entries []indexing.Entry) map[string]document {
	docs := make(map[string]document)
	for _, e := range entries {
		if e.Empty() {
			continue
		}

		if len(e.Sections) == 0 {
			docs[e.Key()] = document{
				Category: e.Category.ID,
				Slug:     e.Page.Slug,
				Title:    e.Page.Title,
				Body:     e.Content,
				Keywords: indexing.ExtractKeywords(e.Page.Title, e.Content),
			}
			continue
		}

		for i, sec := range e.Sections {
			anchor := indexing.CreateAnchor(sec.Heading)
			id := fmt.Sprintf("%s#%s", e.Key(), anchor)
			if _, dup := docs[id]; dup {
				// Repeated heading text within a page
				id = fmt.Sprintf("%s-%d", id, i)
			}
			docs[id] = document{
				Category: e.Category.ID,
				Slug:     e.Page.Slug,
				Title:    e.Page.Title,
				Heading:  sec.Heading,
				Anchor:   anchor,
				Body:     sec.Content,
				Keywords: indexing.ExtractKeywords(sec.Heading, sec.Content),
			}
		}
	}
	return docs
}

// buildIndex creates an in-memory index over entries
func buildIndex(entries []indexing.Entry) (Index, int, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create full-text index: %w", err)
	}

	docs := documents(entries)
	batch := idx.NewBatch()
	for id, doc := range docs {
		if err := batch.Index(id, doc); err != nil {
			idx.Close()
			return nil, 0, fmt.Errorf("failed to add %s to batch: %w", id, err)
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, 0, fmt.Errorf("failed to index batch: %w", err)
		}
	}

	return idx, len(docs), nil
}
