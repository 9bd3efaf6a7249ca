package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/consult-agent/internal/types"
)

// Profile bio bounds: shorter blocks are headings, longer ones are page soup.
const (
	minProfileBioLength = 100
	maxProfileBioLength = 2000
	maxExpertiseTags    = 15
)

var titleSeparatorRe = regexp.MustCompile(`\s+[–|\-]\s+`)

var availabilityRe = regexp.MustCompile(`(?i)\bavailab(?:le|ility)\b`)

// navLabels are link/emphasis strings that can never be a person or a tag.
var navLabels = map[string]bool{
	"browse":         true,
	"categories":     true,
	"all topics":     true,
	"see all":        true,
	"more":           true,
	"home":           true,
	"experts":        true,
	"login":          true,
	"log in":         true,
	"sign up":        true,
	"request a call": true,
	"menu":           true,
}

// ExtractProfile pulls a full expert record out of a rendered profile page.
// Every field degrades independently: a profile with no parseable rating still
// yields a record, with that field absent.
func ExtractProfile(doc *goquery.Document, username, profileURL string) types.ExpertRecord {
	rec := types.ExpertRecord{
		Username:   username,
		ProfileURL: profileURL,
	}

	body := doc.Find("body")
	bodyText := body.Text()

	rec.Name = profileName(doc)
	if v, ok := ratePerMinute(bodyText); ok {
		rec.RatePerMinute = round2(v)
	}
	if v, ok := firstRating(bodyText); ok {
		rec.Rating = &v
	}
	if n, ok := labeledCount(reviewsRe, bodyText); ok {
		rec.ReviewCount = &n
	}
	if n, ok := labeledCount(callsRe, bodyText); ok {
		rec.TotalCalls = n
	}
	rec.Bio = profileBio(body)
	rec.ExpertiseTags = expertiseTags(doc)
	rec.Availability = availability(body)
	rec.ValueScore = ComputeValueScore(rec.RatePerMinute, rec.Rating, rec.ReviewCount)
	return rec
}

// RatingAndReviews extracts only the rating and review count from raw page
// text. Enrichment fetches use this instead of a full profile parse.
func RatingAndReviews(text string) (*float64, *int) {
	var rating *float64
	var reviews *int
	if v, ok := firstRating(text); ok {
		rating = &v
	}
	if n, ok := labeledCount(reviewsRe, text); ok {
		reviews = &n
	}
	return rating, reviews
}

// profileName reads the page title, whose usual shape is "topic – name – site";
// the second segment of a multi-part title is the name. Falls back to the first
// emphasized run that is neither a currency amount nor a navigation label.
func profileName(doc *goquery.Document) string {
	title := collapseWhitespace(doc.Find("title").First().Text())
	if title != "" {
		parts := titleSeparatorRe.Split(title, -1)
		switch {
		case len(parts) >= 3:
			return strings.TrimSpace(parts[1])
		case len(parts) == 2:
			return strings.TrimSpace(parts[0])
		}
	}

	name := ""
	doc.Find("h1, h2, b, strong, em").EachWithBreak(func(_ int, run *goquery.Selection) bool {
		t := collapseWhitespace(run.Text())
		if t == "" || navLabels[strings.ToLower(t)] {
			return true
		}
		if strings.HasPrefix(t, "$") || strings.HasPrefix(t, "£") || strings.HasPrefix(t, "€") {
			return true
		}
		name = t
		return false
	})
	if name != "" {
		return name
	}
	return title
}

// profileBio walks the document top to bottom, arms a boundary once the
// request-call CTA or rate text has been seen (everything before it is header
// and navigation), then takes the first qualifying text block after it.
func profileBio(body *goquery.Selection) string {
	pastBooking := false
	bio := ""
	body.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Children().Length() > 2 {
			return true
		}
		t := collapseWhitespace(el.Text())
		if t == "" {
			return true
		}
		lower := strings.ToLower(t)
		if !pastBooking {
			if strings.Contains(lower, ctaMarker) || strings.Contains(lower, rateMarker) {
				pastBooking = true
			}
			return true
		}
		if n := utf8.RuneCountInString(t); n < minProfileBioLength || n > maxProfileBioLength {
			return true
		}
		if isPageBoilerplate(lower) {
			return true
		}
		bio = t
		return false
	})
	return bio
}

func isPageBoilerplate(lower string) bool {
	return strings.Contains(lower, "©") ||
		strings.Contains(lower, "copyright") ||
		strings.Contains(lower, "all rights reserved") ||
		strings.Contains(lower, "clarity.fm") ||
		strings.Contains(lower, "clarity is")
}

// expertiseTags collects deduplicated labels of links into the category
// taxonomy, skipping generic navigation labels, capped at maxExpertiseTags.
func expertiseTags(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0, maxExpertiseTags)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !isTopicPath(href) {
			return true
		}
		label := collapseWhitespace(a.Text())
		if label == "" {
			return true
		}
		key := strings.ToLower(label)
		if navLabels[key] || seen[key] {
			return true
		}
		seen[key] = true
		tags = append(tags, label)
		return len(tags) < maxExpertiseTags
	})
	return tags
}

func isTopicPath(href string) bool {
	path := href
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		if j := strings.IndexByte(path, '/'); j >= 0 {
			path = path[j:]
		} else {
			path = "/"
		}
	}
	return strings.HasPrefix(path, "/browse/") ||
		strings.HasPrefix(path, "/topic/") ||
		strings.HasPrefix(path, "/category/")
}

// availability grabs the first short text block mentioning availability.
func availability(body *goquery.Selection) string {
	out := ""
	body.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Children().Length() > 2 {
			return true
		}
		t := collapseWhitespace(el.Text())
		if t == "" || utf8.RuneCountInString(t) > 80 || !availabilityRe.MatchString(t) {
			return true
		}
		out = t
		return false
	})
	return out
}
