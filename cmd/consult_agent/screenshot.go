package main

import (
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the current browser tab",
	Args:  cobra.NoArgs,
	RunE:  runScreenshot,
}

var (
	screenshotName string
	screenshotFull bool
)

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotName, "name", "n", "", "Output file name")
	screenshotCmd.Flags().BoolVar(&screenshotFull, "full-page", false, "Capture the full page, not just the viewport")

	rootCmd.AddCommand(screenshotCmd)
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	path, err := a.Screenshot(cmd.Context(), screenshotName, screenshotFull)
	return emit(map[string]string{"screenshot": path}, err)
}
