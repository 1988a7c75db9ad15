package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omnieconomy/wiki-mcp/internal/config"
	"github.com/omnieconomy/wiki-mcp/tools"
)

const (
	version     = "0.2.0"
	serverName  = "omnieconomy-wiki-mcp"
	description = "MCP server for searching the OmniEconomy mod wiki"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", serverName, version)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Failed to load .env: %v", err)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wiki, closeWiki, err := tools.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open wiki: %v", err)
	}
	// Set up cleanup on shutdown
	defer closeWiki()

	// Create MCP server
	server := createMCPServer()

	registerTools(server, wiki)

	// Warm the content index so the first content search does not wait for it
	wiki.Indexer.Preload()

	log.Printf("✓ Server ready and waiting for connections")

	// Run server with stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server error: %v", err)
	}
}

// createMCPServer initializes the MCP server
func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: description,
		},
	)

	log.Printf("Server initialized: %s v%s", serverName, version)
	return server
}

// registerTools registers all MCP tools and resources
func registerTools(server *mcp.Server, wiki *tools.Wiki) {
	wiki.RegisterTools(server)

	log.Printf("✓ All tools registered: 6 tools (search + pages + recent), 2 resources")
}
