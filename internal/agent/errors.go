// Package agent is the operations facade: one struct wiring the session,
// login flow, booking machine and budget ledger behind the call surface the
// CLI exposes. Every error it surfaces carries a screenshot path so a human
// can diagnose DOM drift or anti-bot interference.
package agent

import "fmt"

// NotFoundError represents an expert or profile that is absent or unreachable.
type NotFoundError struct {
	Handle     string
	Screenshot string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("expert %q not found or profile unreachable", e.Handle)
}
