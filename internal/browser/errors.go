// Package browser owns the persistent Chrome session: a reconnect-or-create
// protocol over a small on-disk handle record, cookie snapshots, screenshots and
// tab management. The browser process is detached so it survives between CLI
// invocations; reconnection failure is never fatal, it just forces a relaunch.
package browser

import "fmt"

// TimeoutError represents a navigation or selector wait exceeding its bound.
type TimeoutError struct {
	Message    string
	Screenshot string
	Cause      error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("timeout: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("timeout: %s", e.Message)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// LaunchError represents a failure to start or connect to the browser at all.
type LaunchError struct {
	Message string
	Cause   error
}

func (e *LaunchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("browser launch error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("browser launch error: %s", e.Message)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}
