package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omnieconomy/wiki-mcp/internal/indexing"
	"github.com/omnieconomy/wiki-mcp/tools"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the content index and print its statistics",
	Long: `Fetches every page in the wiki registry, builds the content index
(plain text, headings and sections per page) and the full-text index,
and reports what was indexed.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	w, closeWiki, err := tools.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWiki()

	entries, err := w.Indexer.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to build content index: %w", err)
	}
	if err := w.Fulltext.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to build full-text index: %w", err)
	}

	raw, _ := w.Indexer.Stats()
	stats := tools.NewIndexStats(raw)

	if indexJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("OmniEconomy Wiki Index v%d", indexing.IndexSchemaVersion)))
	cmd.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	cmd.Printf("  Source:        %s\n", cfg.Content.Source)
	cmd.Printf("  Build:         %s\n", stats.BuildID)
	cmd.Printf("  Built in:      %v\n", time.Duration(stats.DurationMs)*time.Millisecond)
	cmd.Printf("  Pages:         %d (%d failed)\n", stats.Pages, stats.PagesFailed)
	cmd.Printf("  Headings:      %d\n", stats.Headings)
	cmd.Printf("  Sections:      %d\n", stats.Sections)
	cmd.Printf("  Full-text:     %d documents\n", w.Fulltext.DocCount())
	cmd.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, e := range entries {
		if e.Empty() {
			cmd.Printf("  %s %s\n", errorStyle.Render("✗"), e.Key())
		}
	}
	return nil
}
