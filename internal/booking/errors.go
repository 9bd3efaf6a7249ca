// Package booking drives the fill → human-confirm → submit lifecycle. Submit is
// the one step with real financial risk: any failure there is terminal and is
// never retried automatically, because a retry could double-charge.
package booking

import "fmt"

// StateViolationError represents a submit with no prior fill, or a fill/submit
// racing against a different expert. No browser action is attempted.
type StateViolationError struct {
	Message string
}

func (e *StateViolationError) Error() string {
	return fmt.Sprintf("state violation: %s", e.Message)
}

// UnavailableError means the expert's profile has no request-call control at
// all; they may not accept bookings.
type UnavailableError struct {
	Expert     string
	Screenshot string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("expert %q does not appear to accept call requests", e.Expert)
}

// SubmitFailureError is terminal. The warning it carries must reach the user:
// the submission may or may not have gone through, so retrying risks a
// duplicate charge.
type SubmitFailureError struct {
	Message    string
	Screenshot string
	Cause      error
}

func (e *SubmitFailureError) Error() string {
	msg := fmt.Sprintf("submit failed: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg + ". DO NOT retry automatically: the request may have been submitted and retrying risks a duplicate charge. Verify in the browser or on the screenshot first."
}

func (e *SubmitFailureError) Unwrap() error {
	return e.Cause
}
