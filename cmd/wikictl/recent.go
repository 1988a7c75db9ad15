package main

import (
	"github.com/spf13/cobra"

	"github.com/omnieconomy/wiki-mcp/tools"
)

var recentClear bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "forget all recent searches")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	w, closeWiki, err := tools.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWiki()

	if recentClear {
		w.Recent.Clear(ctx)
		cmd.Println("Recent searches cleared.")
		return nil
	}

	queries := w.Recent.Recent(ctx)
	if len(queries) == 0 {
		cmd.Println("No recent searches.")
		return nil
	}

	cmd.Println(headingStyle.Render("Recent searches:"))
	for i, q := range queries {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	return nil
}
