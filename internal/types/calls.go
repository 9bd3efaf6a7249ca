// Package types provides type definitions for structured data used throughout the consult-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CallStatus enumerates the status filters accepted by the calls listing.
type CallStatus string

// Accepted call status filters. Unknown values degrade to CallStatusAll.
const (
	CallStatusUpcoming  CallStatus = "upcoming"
	CallStatusPending   CallStatus = "pending"
	CallStatusCompleted CallStatus = "completed"
	CallStatusAll       CallStatus = "all"
)

// ParseCallStatus maps a free-form filter string to a known status, defaulting to all.
func ParseCallStatus(s string) CallStatus {
	switch CallStatus(s) {
	case CallStatusUpcoming, CallStatusPending, CallStatusCompleted:
		return CallStatus(s)
	default:
		return CallStatusAll
	}
}

// CallEntry represents one scheduled or past call on the account calls page.
type CallEntry struct {
	Expert    string `json:"expert"`
	Scheduled string `json:"scheduled,omitempty"`
	Status    string `json:"status"`
	Duration  int    `json:"duration,omitempty"`
}
