// Package types provides type definitions for structured data used throughout the consult-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExpertRecord represents one consultant extracted from a listing card or profile page.
// Rating, ReviewCount and ValueScore use pointers because missing data is distinct
// from zero and must stay distinct through sorting and comparison.
type ExpertRecord struct {
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	ProfileURL    string   `json:"profile_url"`
	RatePerMinute float64  `json:"rate_per_minute"`
	Bio           string   `json:"bio,omitempty"`
	ExpertiseTags []string `json:"expertise_tags,omitempty"`
	TotalCalls    int      `json:"total_calls"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   *int     `json:"review_count,omitempty"`
	ValueScore    *float64 `json:"value_score,omitempty"`
	Availability  string   `json:"availability,omitempty"`
}

// HasValueScore reports whether the derived score is defined for this record.
func (e *ExpertRecord) HasValueScore() bool {
	return e.ValueScore != nil
}

// SearchResult represents an ordered page of expert records for one query.
type SearchResult struct {
	Experts       []ExpertRecord `json:"experts"`
	Count         int            `json:"count"`
	Page          int            `json:"page"`
	Query         string         `json:"query"`
	CategoryURL   string         `json:"category_url"`
	Screenshot    string         `json:"screenshot,omitempty"`
	EnrichedCount int            `json:"enriched_count"`
	EnrichedOf    int            `json:"enriched_of,omitempty"`
}

// CompareResult represents a side-by-side comparison of two or three experts.
type CompareResult struct {
	Experts     []ExpertRecord `json:"experts"`
	BestValue   string         `json:"best_value,omitempty"` // username of the highest defined value score
	Screenshot  string         `json:"screenshot,omitempty"`
	MissingData []string       `json:"missing_data,omitempty"` // usernames lacking rating/review data
}
