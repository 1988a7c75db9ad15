// Command wikictl searches and serves the OmniEconomy wiki from the terminal.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omnieconomy/wiki-mcp/internal/config"
)

var version = "dev" // Injected at build time via -ldflags

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wikictl",
	Short: "Search the OmniEconomy wiki",
	Long: `wikictl searches the OmniEconomy mod wiki.

It can:
  - Rank pages by title and description, or search headings and page text too
  - Build the content index and report what it contains
  - Show or clear recent searches
  - Serve the search API for the wiki front-end`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $WIKI_CONFIG or ~/.omnieconomy-wiki/config.toml)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Failed to load .env: %v", err)
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
