package main

import (
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the booking form filled earlier in this session",
	Long: "Click the confirm control for the form filled by 'book'. Fails closed if no form was " +
		"filled in this session. If a payment step appears, automation stops and hands off to you; " +
		"a failed submit is never retried automatically because of the duplicate-charge risk.",
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	result, err := a.SubmitBooking(cmd.Context())
	return emit(result, err)
}
