package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/consult-agent/internal/agent"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search experts by topic",
	Long: "Resolve a free-text topic to the marketplace's category taxonomy, extract the listing, " +
		"and optionally enrich the top results with rating data fetched from their profiles.",
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var (
	searchMinRate float64
	searchMaxRate float64
	searchSort    string
	searchPage    int
	searchLimit   int
	searchEnrich  int
)

func init() {
	searchCmd.Flags().Float64Var(&searchMinRate, "min-rate", -1, "Minimum rate per minute")
	searchCmd.Flags().Float64Var(&searchMaxRate, "max-rate", -1, "Maximum rate per minute")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort order: rate, rate_desc, calls")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page number")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results (up to 20)")
	searchCmd.Flags().IntVar(&searchEnrich, "enrich", 0, "Enrich the first N results with rating data")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit > agent.MaxSearchLimit {
		return fmt.Errorf("--limit must be at most %d", agent.MaxSearchLimit)
	}

	a, err := loadAgent()
	if err != nil {
		return err
	}

	opts := agent.SearchOptions{
		Sort:   searchSort,
		Page:   searchPage,
		Limit:  searchLimit,
		Enrich: searchEnrich,
	}
	if searchMinRate >= 0 {
		opts.MinRate = &searchMinRate
	}
	if searchMaxRate >= 0 {
		opts.MaxRate = &searchMaxRate
	}

	result, err := a.Search(cmd.Context(), args[0], opts)
	return emit(result, err)
}
