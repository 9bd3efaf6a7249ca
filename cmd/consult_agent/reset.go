package main

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Close the resident browser and delete session state",
	Long: "Tear down the resident browser and delete the session record and cookie snapshot. " +
		"The budget ledger is kept. The next operation launches a fresh browser.",
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	if err := a.Reset(cmd.Context()); err != nil {
		return emit(nil, err)
	}
	return emit(map[string]string{"status": "reset"}, nil)
}
