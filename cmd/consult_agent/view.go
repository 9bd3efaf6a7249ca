package main

import (
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <expert>",
	Short: "View one expert's full profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	rec, err := a.ViewProfile(cmd.Context(), args[0])
	return emit(rec, err)
}
