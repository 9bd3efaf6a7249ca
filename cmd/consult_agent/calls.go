package main

import (
	"github.com/spf13/cobra"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List your scheduled and past calls",
	Args:  cobra.NoArgs,
	RunE:  runCalls,
}

var callsStatus string

func init() {
	callsCmd.Flags().StringVarP(&callsStatus, "status", "s", "all", "Filter: upcoming, pending, completed, all")

	rootCmd.AddCommand(callsCmd)
}

func runCalls(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	entries, err := a.ListCalls(cmd.Context(), callsStatus)
	return emit(entries, err)
}
