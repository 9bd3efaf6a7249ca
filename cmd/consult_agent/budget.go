package main

import (
	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget [YYYY-MM]",
	Short: "Show booked spend for a month against the configured cap",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	month := ""
	if len(args) == 1 {
		month = args[0]
	}
	ledger := a.Budget()
	return emit(map[string]any{
		"month": month,
		"spent": ledger.GetMonthlySpend(month),
		"cap":   ledger.Cap(),
	}, nil)
}
