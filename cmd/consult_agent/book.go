package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/consult-agent/internal/types"
)

var bookCmd = &cobra.Command{
	Use:   "book <expert>",
	Short: "Fill a call request form (does not submit)",
	Long: "Navigate to the expert's profile, open the request-call form and fill it with the " +
		"given duration, topic and time slots. The form is left open for review; run 'submit' " +
		"after checking the screenshot.",
	Args: cobra.ExactArgs(1),
	RunE: runBook,
}

var (
	bookDuration int
	bookTopic    string
	bookSlots    []string
	bookPhone    string
)

func init() {
	bookCmd.Flags().IntVarP(&bookDuration, "duration", "d", 30, "Call duration in minutes (15-120)")
	bookCmd.Flags().StringVarP(&bookTopic, "topic", "t", "", "What you want to discuss (required)")
	bookCmd.Flags().StringSliceVar(&bookSlots, "slot", nil, "Proposed time slot, RFC 3339 (repeat up to 3 times)")
	bookCmd.Flags().StringVar(&bookPhone, "phone", "", "Phone number override")

	bookCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(bookCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	slots := make([]time.Time, 0, len(bookSlots))
	for _, raw := range bookSlots {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --slot %q: %w (want RFC 3339, e.g. 2026-09-15T14:00:00Z)", raw, err)
		}
		slots = append(slots, t)
	}

	a, err := loadAgent()
	if err != nil {
		return err
	}

	draft := types.BookingDraft{
		Expert:   args[0],
		Duration: bookDuration,
		Topic:    bookTopic,
		Slots:    slots,
		Phone:    bookPhone,
	}
	result, err := a.FillBooking(cmd.Context(), draft)
	return emit(result, err)
}
