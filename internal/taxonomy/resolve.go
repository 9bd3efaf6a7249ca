// Package taxonomy maps free-text search intent onto the marketplace's fixed
// category-browsing URL paths. The site has no keyword search worth trusting, so
// queries are resolved against this table instead.
package taxonomy

import "strings"

// BrowseAll is the unfiltered fallback path used when no category matches.
const BrowseAll = "/browse"

// categoryPaths maps normalized query phrases to browse paths. Longer, more
// specific phrases must have their own entries so longest-match wins over a
// shorter prefix (e.g. "marketing strategy" over "marketing").
var categoryPaths = map[string]string{
	// Business
	"business":             "/browse/business",
	"business development": "/browse/business/business-development",
	"strategy":             "/browse/business/strategy",
	"consulting":           "/browse/business/consulting",
	"entrepreneurship":     "/browse/business/entrepreneurship",
	"startups":             "/browse/business/getting-started",
	"startup":              "/browse/business/getting-started",
	"legal":                "/browse/business/legal",
	"human resources":      "/browse/business/human-resources",
	"hiring":               "/browse/business/human-resources",

	// Sales & marketing
	"marketing":               "/browse/sales-marketing",
	"marketing strategy":      "/browse/sales-marketing/marketing-strategy",
	"sales":                   "/browse/sales-marketing/sales",
	"social media":            "/browse/sales-marketing/social-media-marketing",
	"social media marketing":  "/browse/sales-marketing/social-media-marketing",
	"seo":                     "/browse/sales-marketing/search-engine-optimization",
	"content marketing":       "/browse/sales-marketing/inbound-marketing",
	"inbound marketing":       "/browse/sales-marketing/inbound-marketing",
	"email marketing":         "/browse/sales-marketing/email-marketing",
	"growth":                  "/browse/sales-marketing/growth-strategy",
	"growth strategy":         "/browse/sales-marketing/growth-strategy",
	"branding":                "/browse/sales-marketing/branding",
	"public relations":        "/browse/sales-marketing/public-relations",
	"pr":                      "/browse/sales-marketing/public-relations",
	"advertising":             "/browse/sales-marketing/advertising",
	"conversion optimization": "/browse/sales-marketing/conversion-optimization",

	// Funding
	"funding":         "/browse/funding",
	"venture capital": "/browse/funding/venture-capital",
	"fundraising":     "/browse/funding/fundraising",
	"angel investing": "/browse/funding/angel-investing",
	"crowdfunding":    "/browse/funding/crowdfunding",
	"bootstrapping":   "/browse/funding/bootstrapping",

	// Product & design
	"product":            "/browse/product-design",
	"product management": "/browse/product-design/product-management",
	"user experience":    "/browse/product-design/user-experience",
	"ux":                 "/browse/product-design/user-experience",
	"design":             "/browse/product-design",
	"lean startup":       "/browse/product-design/lean-startup",
	"metrics":            "/browse/product-design/metrics-analytics",
	"analytics":          "/browse/product-design/metrics-analytics",

	// Technology
	"technology":         "/browse/technology",
	"software":             "/browse/technology/software-development",
	"software development": "/browse/technology/software-development",
	"mobile":               "/browse/technology/mobile",
	"saas":                 "/browse/technology/saas",
	"ecommerce":            "/browse/industries/ecommerce",
	"e-commerce":           "/browse/industries/ecommerce",

	// Industries
	"healthcare":  "/browse/industries/health-care",
	"real estate": "/browse/industries/real-estate",
	"education":   "/browse/industries/education",
	"nonprofit":   "/browse/industries/nonprofit",
	"restaurant":  "/browse/industries/restaurant",
	"retail":      "/browse/industries/retail",

	// Skills & management
	"leadership":       "/browse/skills-management/leadership",
	"management":       "/browse/skills-management",
	"coaching":         "/browse/skills-management/coaching",
	"public speaking":  "/browse/skills-management/public-speaking",
	"career advice":    "/browse/skills-management/career-advice",
	"time management":  "/browse/skills-management/time-management",
	"communication":    "/browse/skills-management/communication",
	"decision making":  "/browse/skills-management/decision-making",
	"problem solving":  "/browse/skills-management/problem-solving",
	"personal finance": "/browse/skills-management/personal-finance",
}

// Resolve maps a free-text query to a category browse path. It is pure and total:
// exact match first, then the longest table key contained in the query, then the
// unfiltered browse-all path. It never fails.
func Resolve(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return BrowseAll
	}

	if path, ok := categoryPaths[q]; ok {
		return path
	}

	best := ""
	for key := range categoryPaths {
		if !containsPhrase(q, key) {
			continue
		}
		// Longest key wins; lexicographic tie-break keeps map iteration order
		// out of the result.
		if len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best != "" {
		return categoryPaths[best]
	}

	return BrowseAll
}

// containsPhrase reports whether key occurs in q on word boundaries. A plain
// substring check would let short keys like "pr" or "ux" fire inside unrelated
// words ("pricing", "luxury") and misroute the query.
func containsPhrase(q, key string) bool {
	for from := 0; ; {
		i := strings.Index(q[from:], key)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(key)
		if (start == 0 || isWordBreak(q[start-1])) && (end == len(q) || isWordBreak(q[end])) {
			return true
		}
		from = start + 1
	}
}

func isWordBreak(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return false
	case b >= '0' && b <= '9':
		return false
	}
	return true
}
