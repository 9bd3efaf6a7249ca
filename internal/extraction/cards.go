package extraction

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/consult-agent/internal/types"
)

// MaxBioLength caps listing bios; anything longer is navigation soup.
const MaxBioLength = 300

// reservedPaths are first URL path segments that can never be a profile handle.
var reservedPaths = map[string]bool{
	"browse":       true,
	"login":        true,
	"signup":       true,
	"sign-up":      true,
	"signin":       true,
	"search":       true,
	"about":        true,
	"how-it-works": true,
	"help":         true,
	"faq":          true,
	"terms":        true,
	"privacy":      true,
	"blog":         true,
	"categories":   true,
	"pricing":      true,
	"home":         true,
	"join":         true,
	"experts":      true,
	"settings":     true,
	"calls":        true,
	"account":      true,
}

// CardFilter bounds listing extraction. Min/Max are inclusive rate bounds; nil
// means unbounded on that side.
type CardFilter struct {
	Limit   int
	MinRate *float64
	MaxRate *float64
}

// ExtractCards pulls expert records out of a rendered category listing page.
//
// Candidate cards are list items whose text carries both the per-minute rate
// marker and the request-a-call CTA; that dual-marker filter is what rejects
// navigation and footer lists. Out-of-range cards are discarded before they
// count toward the limit. A card yielding neither a name nor a username is
// dropped silently; partial records are kept.
func ExtractCards(doc *goquery.Document, baseURL string, filter CardFilter) []types.ExpertRecord {
	base, _ := url.Parse(baseURL)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	records := make([]types.ExpertRecord, 0, limit)
	doc.Find("li").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		text := card.Text()
		lower := strings.ToLower(text)
		if !strings.Contains(lower, rateMarker) || !strings.Contains(lower, ctaMarker) {
			return true
		}
		// A wrapping list item around the whole results list would match the
		// markers too; only leaf-level candidates are cards.
		if nested := card.Find("li").FilterFunction(func(_ int, inner *goquery.Selection) bool {
			t := strings.ToLower(inner.Text())
			return strings.Contains(t, rateMarker) && strings.Contains(t, ctaMarker)
		}); nested.Length() > 0 {
			return true
		}

		rec, ok := extractCard(card, base)
		if !ok {
			return true
		}
		if filter.MinRate != nil && rec.RatePerMinute < *filter.MinRate {
			return true
		}
		if filter.MaxRate != nil && rec.RatePerMinute > *filter.MaxRate {
			return true
		}

		records = append(records, rec)
		return len(records) < limit
	})

	return records
}

func extractCard(card *goquery.Selection, base *url.URL) (types.ExpertRecord, bool) {
	var rec types.ExpertRecord

	rec.Username, rec.ProfileURL = cardUsername(card, base)

	// Emphasized runs carry the rate (currency-prefixed) and the name (the
	// first run that is not a currency amount).
	card.Find("b, strong, em, i, h2, h3, h4").Each(func(_ int, run *goquery.Selection) {
		t := collapseWhitespace(run.Text())
		if t == "" {
			return
		}
		if strings.HasPrefix(t, "$") || strings.HasPrefix(t, "£") || strings.HasPrefix(t, "€") {
			if rec.RatePerMinute == 0 {
				if v, ok := firstMoney(t); ok {
					rec.RatePerMinute = round2(v)
				}
			}
			return
		}
		if rec.Name == "" {
			rec.Name = t
		}
	})

	if rec.Name == "" && rec.Username == "" {
		return rec, false
	}

	if n, ok := parenCount(card.Text()); ok {
		rec.TotalCalls = n
	}
	rec.Bio = cardBio(card)
	return rec, true
}

// cardUsername derives the handle from the first internal link whose leading
// path segment is not a reserved navigation term.
func cardUsername(card *goquery.Selection, base *url.URL) (username, profileURL string) {
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		if base != nil {
			link = base.ResolveReference(link)
			if link.Host != base.Host {
				return true
			}
		}
		segment := strings.Trim(link.Path, "/")
		if i := strings.IndexByte(segment, '/'); i >= 0 {
			segment = segment[:i]
		}
		if segment == "" || reservedPaths[strings.ToLower(segment)] {
			return true
		}
		username = segment
		profileURL = link.String()
		return false
	})
	return username, profileURL
}

// cardBio picks the longest shallow text block over 80 characters that is not
// the CTA itself, then strips listing boilerplate.
func cardBio(card *goquery.Selection) string {
	best := ""
	card.Find("*").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 2 {
			return
		}
		t := collapseWhitespace(el.Text())
		if utf8.RuneCountInString(t) <= 80 {
			return
		}
		if strings.Contains(strings.ToLower(t), ctaMarker) {
			return
		}
		if utf8.RuneCountInString(t) > utf8.RuneCountInString(best) {
			best = t
		}
	})
	return truncate(stripBoilerplate(best), MaxBioLength)
}
