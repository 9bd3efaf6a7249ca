package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/consult-agent/internal/agent"
	"github.com/jonathan/consult-agent/internal/auth"
	"github.com/jonathan/consult-agent/internal/booking"
	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/config"
)

// loadAgent builds the agent from the --config / --verbose flags.
func loadAgent() (*agent.Agent, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return agent.New(cfg), nil
}

// printJSON writes the operation result to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

// errorResult is the structured error shape every operation emits.
type errorResult struct {
	Error      bool   `json:"error"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Screenshot string `json:"screenshot,omitempty"`
}

// emit prints either the result or a structured error (with its screenshot
// path, when the error carries one) and keeps the non-zero exit code.
func emit(v any, err error) error {
	if err == nil {
		return printJSON(v)
	}
	res := errorResult{
		Error:      true,
		Kind:       errorKind(err),
		Message:    err.Error(),
		Screenshot: errorScreenshot(err),
	}
	_ = printJSON(res)
	return err
}

func errorKind(err error) string {
	var (
		notFound  *agent.NotFoundError
		timeout   *browser.TimeoutError
		launch    *browser.LaunchError
		authErr   *auth.AuthError
		stateViol *booking.StateViolationError
		unavail   *booking.UnavailableError
		submit    *booking.SubmitFailureError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &launch):
		return "launch_failure"
	case errors.As(err, &authErr):
		return "auth_failure"
	case errors.As(err, &stateViol):
		return "state_violation"
	case errors.As(err, &unavail):
		return "unavailable"
	case errors.As(err, &submit):
		return "submit_failure"
	default:
		return "error"
	}
}

func errorScreenshot(err error) string {
	var (
		notFound *agent.NotFoundError
		timeout  *browser.TimeoutError
		authErr  *auth.AuthError
		unavail  *booking.UnavailableError
		submit   *booking.SubmitFailureError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound.Screenshot
	case errors.As(err, &timeout):
		return timeout.Screenshot
	case errors.As(err, &authErr):
		return authErr.Screenshot
	case errors.As(err, &unavail):
		return unavail.Screenshot
	case errors.As(err, &submit):
		return submit.Screenshot
	default:
		return ""
	}
}
