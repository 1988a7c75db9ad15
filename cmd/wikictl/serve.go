package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/omnieconomy/wiki-mcp/internal/httpapi"
	"github.com/omnieconomy/wiki-mcp/tools"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wiki search API",
	Long: `Serves the JSON API used by the wiki front-end:

  GET    /api/search?q=&limit=&content=1
  GET    /api/search/recent
  POST   /api/search/recent
  DELETE /api/search/recent
  GET    /api/pages/popular
  GET    /api/index/stats`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, closeWiki, err := tools.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWiki()

	w.Indexer.Preload()

	addr := cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := httpapi.New(w, httpapi.Options{
		RateLimit: cfg.HTTP.RateLimit,
		Burst:     cfg.HTTP.Burst,
	})
	return server.ListenAndServe(ctx, addr)
}
