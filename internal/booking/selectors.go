package booking

import "github.com/jonathan/consult-agent/internal/browser"

// Control locator tables. Text variants first (what a human sees changes less
// than markup), data-attribute fallbacks after.
var (
	requestCallStrategies = []browser.Strategy{
		{Name: "request-a-call-text", Text: "request a call"},
		{Name: "schedule-a-call-text", Text: "schedule a call"},
		{Name: "book-a-call-text", Text: "book a call"},
		{Name: "request-call-text", Text: "request call"},
		{Name: "request-data-action", Selector: `[data-action*="request"]`},
		{Name: "request-testid", Selector: `[data-testid*="request"]`},
		{Name: "request-href", Selector: `a[href*="/request"]`},
	}

	durationSelectStrategies = []browser.Strategy{
		{Name: "duration-select-name", Selector: `select[name*="duration"]`},
		{Name: "duration-select-id", Selector: `select[id*="duration"]`},
		{Name: "length-select-name", Selector: `select[name*="length"]`},
	}
	durationInputStrategies = []browser.Strategy{
		{Name: "duration-input-name", Selector: `input[name*="duration"]`},
		{Name: "duration-input-id", Selector: `input[id*="duration"]`},
		{Name: "minutes-input-name", Selector: `input[name*="minutes"]`},
	}

	topicStrategies = []browser.Strategy{
		{Name: "topic-textarea-name", Selector: `textarea[name*="topic"]`},
		{Name: "topic-textarea-placeholder", Selector: `textarea[placeholder*="topic"]`},
		{Name: "message-textarea-name", Selector: `textarea[name*="message"]`},
		{Name: "discuss-placeholder", Selector: `textarea[placeholder*="discuss"]`},
		{Name: "topic-input-name", Selector: `input[name*="topic"]`},
		{Name: "first-textarea", Selector: `textarea`},
	}

	phoneStrategies = []browser.Strategy{
		{Name: "phone-tel-type", Selector: `input[type="tel"]`},
		{Name: "phone-input-name", Selector: `input[name*="phone"]`},
		{Name: "phone-placeholder", Selector: `input[placeholder*="phone"]`},
	}

	submitConfirmStrategies = []browser.Strategy{
		{Name: "confirm-text", Text: "confirm"},
		{Name: "submit-request-text", Text: "submit request"},
		{Name: "send-request-text", Text: "send request"},
		{Name: "submit-button", Selector: `button[type="submit"]`},
		{Name: "submit-input", Selector: `input[type="submit"]`},
	}

	// paymentMarkers signal an embedded payment step that automation must not
	// touch.
	paymentMarkers = []string{
		`iframe[src*="stripe"]`,
		`iframe[name*="stripe"]`,
		`[class*="stripe"]`,
		`iframe[src*="paypal"]`,
		`iframe[src*="braintree"]`,
		`[class*="payment"]`,
		`input[name*="card"]`,
		`input[autocomplete="cc-number"]`,
	}

	// slotFieldSelectors are the candidate inputs for proposed time slots,
	// matched positionally (first slot → first candidate, and so on).
	slotFieldSelectors = `input[type="datetime-local"], input[name*="slot"], input[name*="time"], input[id*="slot"], input[id*="time"]`
)
