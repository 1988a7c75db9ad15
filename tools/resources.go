package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "wiki://"

// RegisterResources exposes the category listing and every page's markdown as MCP resources
func (w *Wiki) RegisterResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "All wiki categories and their pages",
		MIMEType:    "application/json",
	}, w.handleCategoriesResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{category}/{slug}",
		Name:        "wiki-page",
		Description: "Markdown of a wiki page",
		MIMEType:    "text/markdown",
	}, w.handlePageResource)

	log.Printf("✓ Wiki resources registered")
}

func (w *Wiki) handleCategoriesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	_, listing, err := w.ListWikiCategories(ctx, nil, ListWikiCategoriesInput{})
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling categories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (w *Wiki) handlePageResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	category, slug, ok := parsePageURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, page, err := w.GetWikiPage(ctx, nil, GetWikiPageInput{Category: category, Slug: slug})
	if errors.Is(err, ErrPageNotFound) || errors.Is(err, ErrCategoryNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     page.Markdown,
		}},
	}, nil
}

// parsePageURI splits wiki://pages/{category}/{slug}
func parsePageURI(uri string) (category, slug string, ok bool) {
	const prefix = uriScheme + "pages/"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", false
	}
	category, slug, ok = strings.Cut(strings.TrimPrefix(uri, prefix), "/")
	if !ok || category == "" || slug == "" || strings.Contains(slug, "/") {
		return "", "", false
	}
	return category, slug, true
}
