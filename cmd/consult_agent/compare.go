package main

import (
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <expert> <expert> [expert]",
	Short: "Compare two or three experts by value score",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	result, err := a.Compare(cmd.Context(), args)
	return emit(result, err)
}
