package tools

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RecentSearchesInput defines input for recent_searches tool
type RecentSearchesInput struct {
	Clear bool `json:"clear,omitempty" jsonschema:"Forget all recent searches before returning (optional, defaults to false)"`
}

// RecentSearchesOutput defines output for recent_searches tool
type RecentSearchesOutput struct {
	Queries []string `json:"queries"`
	Cleared bool     `json:"cleared"`
}

// RecentSearches returns the most recent search_wiki queries, newest first
func (w *Wiki) RecentSearches(ctx context.Context, req *mcp.CallToolRequest, input RecentSearchesInput) (*mcp.CallToolResult, RecentSearchesOutput, error) {
	if input.Clear {
		w.Recent.Clear(ctx)
	}
	return nil, RecentSearchesOutput{
		Queries: w.Recent.Recent(ctx),
		Cleared: input.Clear,
	}, nil
}

// RegisterRecentTools registers the recent search history tool
func (w *Wiki) RegisterRecentTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "recent_searches",
			Description: "List the last few wiki search queries (newest first). Set clear to forget them.",
		},
		w.RecentSearches,
	)

	log.Printf("✓ Recent search tools registered")
}

// RegisterTools registers every wiki tool and resource with the MCP server
func (w *Wiki) RegisterTools(server *mcp.Server) {
	w.RegisterSearchTools(server)
	w.RegisterPageTools(server)
	w.RegisterRecentTools(server)
	w.RegisterResources(server)
}
