package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omnieconomy/wiki-mcp/internal/search"
	"github.com/omnieconomy/wiki-mcp/tools"
)

var (
	searchLimit   int
	searchContent bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search wiki pages",
	Long: `Ranks wiki pages by how well their titles and descriptions match the query.
With --content, title matches are printed first and then refined with
matches from section headings and page text.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", search.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchContent, "content", false, "also search headings and page text")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := cmd.Context()

	w, closeWiki, err := tools.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWiki()

	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		limit = cfg.Search.MaxResults
	}
	opts := search.Options{MaxResults: limit, IncludeContent: searchContent}

	w.Recent.Add(ctx, query)

	if !searchContent {
		return outputSearch(cmd, w, query, w.Searcher.Search(query, opts))
	}

	// Show title matches right away, then wait for the content pass
	session := search.NewSession(w.Searcher, cfg.Search.Debounce.Duration)
	refined := make(chan []search.Result, 1)
	results := session.Run(ctx, query, opts, func(r []search.Result) { refined <- r })

	if !searchJSON && len(results) > 0 {
		printResults(cmd, "Title matches", results)
		cmd.Println(mutedStyle.Render("Searching page content..."))
		cmd.Println()
	}

	select {
	case results = <-refined:
	case <-ctx.Done():
		return ctx.Err()
	}
	return outputSearch(cmd, w, query, results)
}

func outputSearch(cmd *cobra.Command, w *tools.Wiki, query string, results []search.Result) error {
	if searchJSON {
		out := tools.SearchWikiOutput{Query: query, Results: make([]tools.SearchResult, 0, len(results))}
		for _, r := range results {
			out.Results = append(out.Results, tools.NewSearchResult(r))
		}
		if len(results) == 0 {
			out.Suggestions = w.Suggestions(query)
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		if suggestions := w.Suggestions(query); len(suggestions) > 0 {
			titles := make([]string, 0, len(suggestions))
			for _, s := range suggestions {
				titles = append(titles, s.Title)
			}
			cmd.Printf("Did you mean: %s?\n", strings.Join(titles, ", "))
		}
		return nil
	}

	printResults(cmd, "Results", results)
	return nil
}

func printResults(cmd *cobra.Command, heading string, results []search.Result) {
	cmd.Println(headingStyle.Render(heading + ":"))
	cmd.Println()
	for i, r := range results {
		summary := tools.NewSearchResult(r)

		// Format: [N] Title (category) score
		cmd.Printf("  [%d] %s %s %s\n", i+1, titleStyle.Render(summary.Title),
			mutedStyle.Render("("+summary.CategoryTitle+")"), mutedStyle.Render(fmt.Sprintf("%.1f", summary.Score)))

		seen := make(map[string]bool)
		var badges []string
		for _, m := range summary.Matches {
			if !seen[m.Type] {
				seen[m.Type] = true
				badges = append(badges, badge(m.Type))
			}
		}
		cmd.Printf("      %s\n", strings.Join(badges, " "))
		if summary.Excerpt != "" {
			cmd.Printf("      %s\n", summary.Excerpt)
		}
		cmd.Printf("      %s\n", mutedStyle.Render(summary.URL))
		cmd.Println()
	}
}
