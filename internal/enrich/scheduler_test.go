package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/consult-agent/internal/types"
)

// fakeFetcher returns canned rating data per username and records concurrency.
type fakeFetcher struct {
	mu        sync.Mutex
	ratings   map[string]float64
	reviews   map[string]int
	failures  map[string]bool
	active    int
	maxActive int
	calls     []string
}

func (f *fakeFetcher) FetchRating(_ context.Context, username string) (*float64, *int, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.calls = append(f.calls, username)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.failures[username] {
		return nil, nil, errors.New("tab crashed")
	}
	rating := f.ratings[username]
	reviews := f.reviews[username]
	return &rating, &reviews, nil
}

func record(username string, rate float64) types.ExpertRecord {
	return types.ExpertRecord{Username: username, RatePerMinute: rate}
}

func TestEnrichBackfillsAndSorts(t *testing.T) {
	records := []types.ExpertRecord{
		record("low", 10),  // 4.0 * 10 / 10 = 4
		record("high", 2),  // 4.8 * 100 / 2 = 240
		record("mid", 5),   // 4.5 * 50 / 5 = 45
		record("tail", 20), // beyond n, never fetched
	}
	fetcher := &fakeFetcher{
		ratings: map[string]float64{"low": 4.0, "high": 4.8, "mid": 4.5},
		reviews: map[string]int{"low": 10, "high": 100, "mid": 50},
	}

	enriched := NewScheduler(fetcher, false).Enrich(context.Background(), records, 3)
	assert.Equal(t, 3, enriched)

	// Defined scores sort descending; the untouched record sorts last.
	assert.Equal(t, "high", records[0].Username)
	assert.Equal(t, "mid", records[1].Username)
	assert.Equal(t, "low", records[2].Username)
	assert.Equal(t, "tail", records[3].Username)
	assert.Nil(t, records[3].ValueScore)
	assert.NotContains(t, fetcher.calls, "tail")
}

func TestEnrichPartialFailureIsolation(t *testing.T) {
	records := []types.ExpertRecord{
		record("ok1", 4),
		record("broken", 4),
		record("ok2", 4),
	}
	fetcher := &fakeFetcher{
		ratings:  map[string]float64{"ok1": 4.0, "ok2": 5.0},
		reviews:  map[string]int{"ok1": 20, "ok2": 20},
		failures: map[string]bool{"broken": true},
	}

	enriched := NewScheduler(fetcher, false).Enrich(context.Background(), records, 3)
	assert.Equal(t, 2, enriched)

	// The failed record keeps its prior (absent) values and sorts after the
	// two defined scores; the others are unaffected by its failure.
	assert.Equal(t, "ok2", records[0].Username)
	assert.Equal(t, "ok1", records[1].Username)
	assert.Equal(t, "broken", records[2].Username)
	assert.Nil(t, records[2].Rating)
	assert.Nil(t, records[2].ReviewCount)
	assert.Nil(t, records[2].ValueScore)
}

func TestEnrichConcurrencyCap(t *testing.T) {
	records := make([]types.ExpertRecord, 9)
	ratings := make(map[string]float64)
	reviews := make(map[string]int)
	for i := range records {
		name := string(rune('a' + i))
		records[i] = record(name, 1)
		ratings[name] = 4.0
		reviews[name] = 10
	}
	fetcher := &fakeFetcher{ratings: ratings, reviews: reviews}

	enriched := NewScheduler(fetcher, false).Enrich(context.Background(), records, 9)
	assert.Equal(t, 9, enriched)
	assert.LessOrEqual(t, fetcher.maxActive, BatchSize)
}

func TestEnrichBoundsN(t *testing.T) {
	records := []types.ExpertRecord{record("only", 5)}
	fetcher := &fakeFetcher{
		ratings: map[string]float64{"only": 4.0},
		reviews: map[string]int{"only": 8},
	}

	enriched := NewScheduler(fetcher, false).Enrich(context.Background(), records, 10)
	assert.Equal(t, 1, enriched)

	assert.Equal(t, 0, NewScheduler(fetcher, false).Enrich(context.Background(), nil, 5))
}

func TestSortByValueStability(t *testing.T) {
	s1, s2 := 10.0, 10.0
	records := []types.ExpertRecord{
		record("undef1", 1),
		{Username: "tied1", ValueScore: &s1},
		record("undef2", 1),
		{Username: "tied2", ValueScore: &s2},
	}
	SortByValue(records)

	require.Len(t, records, 4)
	// Tied defined scores and undefined records both keep input order.
	assert.Equal(t, "tied1", records[0].Username)
	assert.Equal(t, "tied2", records[1].Username)
	assert.Equal(t, "undef1", records[2].Username)
	assert.Equal(t, "undef2", records[3].Username)
}
