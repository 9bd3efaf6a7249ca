package booking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/consult-agent/internal/types"
)

// Labeled-field patterns for the confirmation page. Each is independent; a
// confirmation with only some fields is still a confirmation.
var (
	callIDRe    = regexp.MustCompile(`(?i)(?:call|booking|confirmation)\s*(?:id|number|#)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]*)`)
	scheduledRe = regexp.MustCompile(`(?i)scheduled\s*(?:for|at)?\s*:?\s*([^\n]+)`)
	dialInRe    = regexp.MustCompile(`(?i)dial[\s-]?in\s*(?:number)?\s*:?\s*(\+?[0-9][0-9()\-.\s]{6,})`)
	totalRe     = regexp.MustCompile(`(?i)total\s*(?:cost|charge)?\s*:?\s*[$£€]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
)

// ParseConfirmation extracts the booking confirmation record from rendered
// page text. Missing fields stay empty; the caller decides whether an entirely
// empty confirmation is trustworthy.
func ParseConfirmation(text string) types.Confirmation {
	var conf types.Confirmation

	if m := callIDRe.FindStringSubmatch(text); m != nil {
		conf.CallID = m[1]
	}
	if m := scheduledRe.FindStringSubmatch(text); m != nil {
		conf.ScheduledTime = strings.TrimSpace(m[1])
	}
	if m := dialInRe.FindStringSubmatch(text); m != nil {
		conf.DialIn = strings.TrimSpace(m[1])
	}
	if m := totalRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			conf.TotalCost = v
		}
	}
	return conf
}
