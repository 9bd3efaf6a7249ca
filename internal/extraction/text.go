// Package extraction turns rendered marketplace pages into typed expert records.
// The site guarantees no structured markup, so every field is derived through a
// chain of heuristics over a goquery snapshot, each with an explicit fallback and
// an explicit give-up default. Missing data degrades to empty/absent, never errors.
package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Text markers used by the card filter and extraction boundaries.
const (
	rateMarker = "/min"
	ctaMarker  = "request a call"
)

var (
	moneyRe      = regexp.MustCompile(`[$£€]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	ratePerMinRe = regexp.MustCompile(`(?i)[$£€]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*(?:/|per\s+)min`)
	parenIntRe   = regexp.MustCompile(`\(([0-9][0-9,]*)\)`)
	ratingRe     = regexp.MustCompile(`(?i)([0-9](?:\.[0-9]+)?)\s*(?:stars?\b|out of 5|★|⁄\s*5|/\s*5)`)
	reviewsRe    = regexp.MustCompile(`(?i)([0-9][0-9,]*)\s+(?:reviews?|ratings?|feedback)\b`)
	callsRe      = regexp.MustCompile(`(?i)([0-9][0-9,]*)\s+(?:calls?|sessions?|consultations?)\b`)
	createdAgoRe = regexp.MustCompile(`(?i)\bcreated\s+\d+\s+\w+\s+ago\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// collapseWhitespace folds runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// parseAmount parses a comma-grouped decimal amount like "1,250.50".
func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseCount parses a comma-grouped non-negative integer like "1,234".
func parseCount(s string) (int, bool) {
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// firstMoney returns the first currency amount in s, if any.
func firstMoney(s string) (float64, bool) {
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// ratePerMinute returns the first "$X/min" style amount in s, if any.
func ratePerMinute(s string) (float64, bool) {
	m := ratePerMinRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// parenCount returns the first parenthesized integer in s, if any.
func parenCount(s string) (int, bool) {
	m := parenIntRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

// firstRating scans s for a numeric value followed by a rating marker and
// returns the first one inside (0, 5]. Values outside the scale are skipped so
// a stray "7/5 tips" headline cannot poison the field.
func firstRating(s string) (float64, bool) {
	for _, m := range ratingRe.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v > 0 && v <= 5 {
			return v, true
		}
	}
	return 0, false
}

// labeledCount extracts "<n> Reviews"-style counts using the given pattern.
func labeledCount(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

// stripBoilerplate removes known listing noise ("Created 3 years ago") and
// collapses whitespace.
func stripBoilerplate(s string) string {
	return collapseWhitespace(createdAgoRe.ReplaceAllString(s, ""))
}

// round2 rounds to two decimal places, the precision of every currency-derived
// value in the system.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// truncate caps s at max runes without splitting a rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
