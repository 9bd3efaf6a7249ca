// Package auth drives the marketplace login form: a multi-variant, possibly
// two-step flow whose success is decided by a race between a dashboard URL
// match and a logged-in indicator element.
package auth

import "fmt"

// AuthError represents a login failure: bad credentials, an unrecognized form
// layout, or neither success condition resolving within the bound.
type AuthError struct {
	Message    string
	Screenshot string
	Cause      error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
