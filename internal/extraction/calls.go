package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/consult-agent/internal/types"
)

var (
	durationMinRe = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s*min(?:ute)?s?\b`)
	scheduledAtRe = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}(?:\s+(?:at\s+)?\d{1,2}:\d{2}\s*(?:am|pm)?)?|\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2})?)`)
)

// statusWords maps text found in a call row to its canonical status. Order
// matters: terminal words are checked first, so "completed call, was scheduled
// Mar 3" reads as completed rather than upcoming.
var statusWords = []struct {
	word   string
	status types.CallStatus
}{
	{"completed", types.CallStatusCompleted},
	{"finished", types.CallStatusCompleted},
	{"ended", types.CallStatusCompleted},
	{"pending", types.CallStatusPending},
	{"awaiting", types.CallStatusPending},
	{"requested", types.CallStatusPending},
	{"upcoming", types.CallStatusUpcoming},
	{"scheduled", types.CallStatusUpcoming},
	{"confirmed", types.CallStatusUpcoming},
}

// ExtractCalls pulls call entries off the account calls page. Rows are list
// items or table rows carrying a recognizable status word; everything else on
// the page is ignored.
func ExtractCalls(doc *goquery.Document, filter types.CallStatus) []types.CallEntry {
	entries := make([]types.CallEntry, 0)
	doc.Find("li, tr").Each(func(_ int, row *goquery.Selection) {
		text := collapseWhitespace(row.Text())
		lower := strings.ToLower(text)

		status := types.CallStatus("")
		for _, sw := range statusWords {
			if strings.Contains(lower, sw.word) {
				status = sw.status
				break
			}
		}
		if status == "" {
			return
		}
		// Nested rows would double-count; only leaf rows are entries.
		if row.Find("li, tr").Length() > 0 {
			return
		}
		if filter != types.CallStatusAll && status != filter {
			return
		}

		entry := types.CallEntry{Status: string(status)}
		if name := collapseWhitespace(row.Find("b, strong, em, h3, h4, a").First().Text()); name != "" {
			entry.Expert = name
		}
		if m := scheduledAtRe.FindStringSubmatch(text); m != nil {
			entry.Scheduled = strings.TrimSpace(m[1])
		}
		if m := durationMinRe.FindStringSubmatch(text); m != nil {
			if n, ok := parseCount(m[1]); ok {
				entry.Duration = n
			}
		}
		if entry.Expert == "" && entry.Scheduled == "" {
			return
		}
		entries = append(entries, entry)
	})
	return entries
}
