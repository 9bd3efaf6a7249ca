// Package enrich backfills rating and review data that listing pages omit. It
// fans profile fetches out across a bounded pool of short-lived browser tabs
// and merges results back by index, tolerating individual failures.
package enrich

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/consult-agent/internal/extraction"
	"github.com/jonathan/consult-agent/internal/types"
)

// BatchSize is the concurrent fetch cap. Three tabs sharing one browser is the
// most the session tolerates without the site's rate heuristics waking up.
const BatchSize = 3

// RatingFetcher fetches rating/review data for one profile. The browser-backed
// implementation lives in fetcher.go; tests inject fakes.
type RatingFetcher interface {
	FetchRating(ctx context.Context, username string) (*float64, *int, error)
}

// Scheduler runs enrichment over a record slice in place.
type Scheduler struct {
	fetcher RatingFetcher
	verbose bool
}

// NewScheduler returns a scheduler over the given fetcher.
func NewScheduler(fetcher RatingFetcher, verbose bool) *Scheduler {
	return &Scheduler{fetcher: fetcher, verbose: verbose}
}

// Enrich backfills rating/review data for the first n records, in batches of
// BatchSize with settle-all semantics: one fetch failing leaves that record at
// its prior value and never disturbs the others. Afterwards records are
// re-sorted by value score. Returns how many records were actually enriched.
func (s *Scheduler) Enrich(ctx context.Context, records []types.ExpertRecord, n int) int {
	if n > len(records) {
		n = len(records)
	}
	if n <= 0 {
		return 0
	}

	sem := semaphore.NewWeighted(BatchSize)
	enriched := 0
	var mu sync.Mutex

	for start := 0; start < n; start += BatchSize {
		end := start + BatchSize
		if end > n {
			end = n
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer sem.Release(1)

				rec := &records[idx]
				rating, reviews, err := s.fetcher.FetchRating(ctx, rec.Username)
				if err != nil {
					s.logf("[ENRICH] %s failed: %v", rec.Username, err)
					return
				}
				if rating != nil {
					rec.Rating = rating
				}
				if reviews != nil {
					rec.ReviewCount = reviews
				}
				rec.ValueScore = extraction.ComputeValueScore(rec.RatePerMinute, rec.Rating, rec.ReviewCount)

				mu.Lock()
				enriched++
				mu.Unlock()
			}(i)
		}
		wg.Wait()
	}

	SortByValue(records)
	s.logf("[ENRICH] enriched %d of %d", enriched, n)
	return enriched
}

// SortByValue orders records with defined value scores first, descending;
// records without a score keep their relative input order after all defined
// ones.
func SortByValue(records []types.ExpertRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].ValueScore, records[j].ValueScore
		switch {
		case a != nil && b != nil:
			return *a > *b
		case a != nil:
			return true
		default:
			return false
		}
	})
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(format, args...)
	}
}
