package enrich

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/extraction"
)

// TabFetcher opens each profile in its own short-lived tab on the shared
// session and scrapes only rating/review text. The tab is closed
// unconditionally, success or failure.
type TabFetcher struct {
	Session *browser.Session
	BaseURL string
	Timeout time.Duration
}

// FetchRating implements RatingFetcher over a throwaway tab.
func (f *TabFetcher) FetchRating(ctx context.Context, username string) (*float64, *int, error) {
	tabCtx, closeTab := f.Session.NewTab()
	defer closeTab()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	var bodyText string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(f.BaseURL+"/"+username),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &bodyText, chromedp.ByQuery),
	)
	if err != nil {
		return nil, nil, err
	}

	rating, reviews := extraction.RatingAndReviews(bodyText)
	return rating, reviews, nil
}
