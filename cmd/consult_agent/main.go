// Package main provides the entry point for the consult-agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "consult_agent",
	Short: "Marketplace consultant search and booking automation",
	Long: "consult_agent drives a resident browser session against the consultant marketplace: " +
		"search experts by topic, view and compare profiles, and run the two-phase call booking flow " +
		"with a human confirmation step between fill and submit.",
	SilenceUsage: true,
}

var (
	configPath  string
	verboseFlag bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
