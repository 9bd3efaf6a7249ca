package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileBioText = "I scaled three marketplace startups from zero to eight figures in revenue and now advise founders on pricing, retention and the unglamorous operational work that actually moves the needle."

func profilePage(title, body string) string {
	return `<html><head><title>` + title + `</title></head><body>` + body + `</body></html>`
}

func TestExtractProfile(t *testing.T) {
	html := profilePage("Ecommerce Growth – Harry Hill – Clarity",
		`<nav><a href="/browse">Browse</a> <a href="/login">Login</a></nav>
		<h1>Harry Hill</h1>
		<div><span>$8.50/min</span> <button>Request a Call</button></div>
		<p>`+profileBioText+`</p>
		<div>4.9 stars · 231 Reviews · 412 Calls</div>
		<div><a href="/browse/sales-marketing">Marketing</a> <a href="/browse/industries/ecommerce">Ecommerce</a></div>`)

	rec := ExtractProfile(parseHTML(t, html), "harry", baseURL+"/harry")

	assert.Equal(t, "harry", rec.Username)
	assert.Equal(t, "Harry Hill", rec.Name)
	assert.Equal(t, 8.50, rec.RatePerMinute)
	require.NotNil(t, rec.Rating)
	assert.Equal(t, 4.9, *rec.Rating)
	require.NotNil(t, rec.ReviewCount)
	assert.Equal(t, 231, *rec.ReviewCount)
	assert.Equal(t, 412, rec.TotalCalls)
	assert.Equal(t, profileBioText, rec.Bio)
	assert.Equal(t, []string{"Marketing", "Ecommerce"}, rec.ExpertiseTags)
	require.NotNil(t, rec.ValueScore)
	assert.Equal(t, round2(231*4.9/8.50), *rec.ValueScore)
}

func TestProfileNameFromTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"Three segments prefers second", "Startup Advice – Ivy Ito – Clarity", "Ivy Ito"},
		{"Hyphen separator", "Topic - Jay Jones - Clarity", "Jay Jones"},
		{"Pipe separator", "Topic | Kim Kelly | Clarity", "Kim Kelly"},
		{"Two segments takes first", "Lena Lee – Clarity", "Lena Lee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ExtractProfile(parseHTML(t, profilePage(tt.title, "")), "x", baseURL+"/x")
			assert.Equal(t, tt.expected, rec.Name)
		})
	}
}

func TestProfileNameEmphasizedFallback(t *testing.T) {
	// Single-segment title falls through to emphasized text, skipping currency
	// and navigation strings.
	html := profilePage("Clarity",
		`<strong>$5.00/min</strong> <strong>Request a Call</strong> <strong>Mia Moore</strong>`)
	rec := ExtractProfile(parseHTML(t, html), "mia", baseURL+"/mia")
	assert.Equal(t, "Mia Moore", rec.Name)
}

func TestProfileRatingPatterns(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected *float64
	}{
		{"Stars suffix", "<div>4.7 stars</div>", ptr(4.7)},
		{"Out of 5", "<div>Rated 4.2 out of 5</div>", ptr(4.2)},
		{"Star glyph", "<div>5 ★</div>", ptr(5.0)},
		{"Slash five", "<div>3.8/5</div>", ptr(3.8)},
		{"Zero is out of scale", "<div>0 stars</div>", nil},
		{"Above five skipped, next accepted", "<div>7/5 tips</div><div>4.1 stars</div>", ptr(4.1)},
		{"No marker means absent", "<div>rating 4.5</div>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ExtractProfile(parseHTML(t, profilePage("T", tt.body)), "x", baseURL+"/x")
			if tt.expected == nil {
				assert.Nil(t, rec.Rating)
			} else {
				require.NotNil(t, rec.Rating)
				assert.Equal(t, *tt.expected, *rec.Rating)
			}
		})
	}
}

func TestProfileCountPatterns(t *testing.T) {
	html := profilePage("T", `<div>1,204 Reviews</div><div>3,456 Consultations</div>`)
	rec := ExtractProfile(parseHTML(t, html), "x", baseURL+"/x")
	require.NotNil(t, rec.ReviewCount)
	assert.Equal(t, 1204, *rec.ReviewCount)
	assert.Equal(t, 3456, rec.TotalCalls)
}

func TestProfileBioBoundary(t *testing.T) {
	// A long header blurb before the booking button must not be mistaken for
	// the bio; only text past the CTA/rate boundary qualifies.
	header := "Welcome to the best marketplace for on-demand advice, trusted by thousands of founders, operators and investors around the world every single day."
	html := profilePage("T – Nora Nash – Clarity",
		`<p>`+header+`</p>
		<div><button>Request a Call</button> $6.00/min</div>
		<p>`+profileBioText+`</p>
		<p>Copyright 2026 Clarity.fm, all rights reserved. Browse thousands of experts across every category on the platform today.</p>`)

	rec := ExtractProfile(parseHTML(t, html), "nora", baseURL+"/nora")
	assert.Equal(t, profileBioText, rec.Bio)
}

func TestProfileBioRejectsBoilerplate(t *testing.T) {
	long := strings.Repeat("word ", 40)
	html := profilePage("T",
		`<div>$6.00/min Request a Call</div>
		<p>Copyright 2026 — `+long+`</p>`)
	rec := ExtractProfile(parseHTML(t, html), "x", baseURL+"/x")
	assert.Empty(t, rec.Bio)
}

func TestProfileBioMultibyteBounds(t *testing.T) {
	// Length bounds count characters, not bytes: a CJK bio well inside the
	// character range is three times its length in bytes and must still
	// qualify.
	bio := strings.Repeat("顧客獲得と価格戦略について助言します。", 60) // 1140 chars, >3000 bytes
	html := profilePage("T – Oki Ono – Clarity",
		`<div><button>Request a Call</button> $6.00/min</div>
		<p>`+bio+`</p>`)

	rec := ExtractProfile(parseHTML(t, html), "oki", baseURL+"/oki")
	assert.Equal(t, bio, rec.Bio)
}

func TestProfileTagsDedupedAndCapped(t *testing.T) {
	var links []string
	links = append(links, `<a href="/browse">Browse</a>`) // denylisted label
	for i := 0; i < 20; i++ {
		links = append(links, `<a href="/browse/topic-`+string(rune('a'+i))+`">Tag `+string(rune('A'+i))+`</a>`)
	}
	links = append(links, `<a href="/browse/topic-a">tag a</a>`) // dup, case-insensitive

	rec := ExtractProfile(parseHTML(t, profilePage("T", strings.Join(links, " "))), "x", baseURL+"/x")
	assert.Len(t, rec.ExpertiseTags, 15)
	assert.NotContains(t, rec.ExpertiseTags, "Browse")
}

func TestRatingAndReviews(t *testing.T) {
	rating, reviews := RatingAndReviews("4.6 stars from 88 Reviews")
	require.NotNil(t, rating)
	require.NotNil(t, reviews)
	assert.Equal(t, 4.6, *rating)
	assert.Equal(t, 88, *reviews)

	rating, reviews = RatingAndReviews("no data here")
	assert.Nil(t, rating)
	assert.Nil(t, reviews)
}

func ptr(v float64) *float64 { return &v }
