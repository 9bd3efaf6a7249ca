// Package types provides type definitions for structured data used throughout the consult-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// BookingDraft represents the inputs for filling a call request form.
// Validated with go-playground/validator before any browser action runs.
type BookingDraft struct {
	Expert        string      `json:"expert" validate:"required"`
	Duration      int         `json:"duration" validate:"required,min=15,max=120"`
	Topic         string      `json:"topic" validate:"required"`
	Slots         []time.Time `json:"slots,omitempty" validate:"max=3"`
	Phone         string      `json:"phone,omitempty"`
	EstimatedCost float64     `json:"estimated_cost"`
}

// FillResult represents the outcome of a completed form fill, pending human review.
type FillResult struct {
	Screenshot    string  `json:"screenshot"`
	ExpertName    string  `json:"expert_name"`
	EstimatedCost float64 `json:"estimated_cost"`
	CostPerMinute float64 `json:"cost_per_minute"`
	Duration      int     `json:"duration"`
	BudgetWarning string  `json:"budget_warning,omitempty"`
}

// Confirmation represents the booking confirmation extracted after a successful submit.
type Confirmation struct {
	CallID        string  `json:"call_id,omitempty"`
	ScheduledTime string  `json:"scheduled_time,omitempty"`
	DialIn        string  `json:"dial_in,omitempty"`
	TotalCost     float64 `json:"total_cost,omitempty"`
	Screenshot    string  `json:"screenshot,omitempty"`
}

// SubmitResult represents the terminal outcome of the submit step. Exactly one of
// Confirmation or RequiresManualPayment is meaningful.
type SubmitResult struct {
	Confirmation          *Confirmation `json:"confirmation,omitempty"`
	RequiresManualPayment bool          `json:"requires_manual_payment,omitempty"`
	Message               string        `json:"message,omitempty"`
	Screenshot            string        `json:"screenshot,omitempty"`
}
