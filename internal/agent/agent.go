package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/consult-agent/internal/auth"
	"github.com/jonathan/consult-agent/internal/booking"
	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/budget"
	"github.com/jonathan/consult-agent/internal/config"
	"github.com/jonathan/consult-agent/internal/enrich"
	"github.com/jonathan/consult-agent/internal/extraction"
	"github.com/jonathan/consult-agent/internal/taxonomy"
	"github.com/jonathan/consult-agent/internal/types"
)

// MaxSearchLimit caps how many cards one search extracts.
const MaxSearchLimit = 20

// Agent wires the components behind the operation surface. All operations
// except the booking pair are idempotent reads.
type Agent struct {
	cfg     *config.Config
	session *browser.Session
	flow    *auth.Flow
	ledger  *budget.Ledger
	machine *booking.Machine
}

// New builds an agent from config. No browser work happens until an operation
// acquires the session.
func New(cfg *config.Config) *Agent {
	session := browser.NewSession(cfg)
	ledger := budget.NewLedger(cfg.LedgerFile(), cfg.MonthlyBudget)
	return &Agent{
		cfg:     cfg,
		session: session,
		flow:    auth.NewFlow(session, cfg),
		ledger:  ledger,
		machine: booking.NewMachine(session, cfg, ledger),
	}
}

// SearchOptions bound and shape one search operation.
type SearchOptions struct {
	MinRate *float64
	MaxRate *float64
	Sort    string // "", "rate", "rate_desc", "calls"
	Page    int
	Limit   int
	Enrich  int // enrich the first N results; 0 disables enrichment
}

// Search resolves the query to a category page, extracts listing cards,
// optionally enriches the head of the result, and returns the ordered records
// with a screenshot for verification.
func (a *Agent) Search(ctx context.Context, query string, opts SearchOptions) (*types.SearchResult, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	categoryURL := a.cfg.BaseURL + taxonomy.Resolve(query)
	target := categoryURL
	if page > 1 {
		target = fmt.Sprintf("%s?page=%d", categoryURL, page)
	}
	if err := a.session.Navigate(ctx, target); err != nil {
		return nil, err
	}
	doc, err := a.session.Document()
	if err != nil {
		return nil, err
	}

	records := extraction.ExtractCards(doc, a.cfg.BaseURL, extraction.CardFilter{
		Limit:   limit,
		MinRate: opts.MinRate,
		MaxRate: opts.MaxRate,
	})

	enriched := 0
	if opts.Enrich > 0 {
		fetcher := &enrich.TabFetcher{Session: a.session, BaseURL: a.cfg.BaseURL}
		enriched = enrich.NewScheduler(fetcher, a.cfg.Verbose).Enrich(ctx, records, opts.Enrich)
	}
	applySort(records, opts.Sort)

	shot, _ := a.session.Screenshot("", false)
	result := &types.SearchResult{
		Experts:       records,
		Count:         len(records),
		Page:          page,
		Query:         query,
		CategoryURL:   categoryURL,
		Screenshot:    shot,
		EnrichedCount: enriched,
		EnrichedOf:    opts.Enrich,
	}
	return result, nil
}

// applySort handles the explicit sort modes; the default order is the page's
// own order, or the enrichment ordering when enrichment ran.
func applySort(records []types.ExpertRecord, mode string) {
	switch mode {
	case "rate":
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].RatePerMinute < records[j].RatePerMinute
		})
	case "rate_desc":
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].RatePerMinute > records[j].RatePerMinute
		})
	case "calls":
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].TotalCalls > records[j].TotalCalls
		})
	}
}

// ViewProfile navigates to one expert's profile and extracts the full record.
func (a *Agent) ViewProfile(ctx context.Context, handle string) (*types.ExpertRecord, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return nil, err
	}

	profileURL := a.cfg.BaseURL + "/" + handle
	if err := a.session.Navigate(ctx, profileURL); err != nil {
		return nil, err
	}
	doc, err := a.session.Document()
	if err != nil {
		return nil, err
	}

	if pageLooksMissing(doc.Find("title").Text()) {
		return nil, &NotFoundError{Handle: handle, Screenshot: a.session.TryScreenshot("")}
	}

	rec := extraction.ExtractProfile(doc, handle, profileURL)
	if rec.Name == "" && rec.RatePerMinute == 0 {
		return nil, &NotFoundError{Handle: handle, Screenshot: a.session.TryScreenshot("")}
	}
	return &rec, nil
}

func pageLooksMissing(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "not found") || strings.Contains(t, "404")
}

// Compare fetches two or three profiles and names the best defined value
// score. Experts lacking rating data are listed, not failed.
func (a *Agent) Compare(ctx context.Context, handles []string) (*types.CompareResult, error) {
	if len(handles) < 2 || len(handles) > 3 {
		return nil, fmt.Errorf("compare takes 2 or 3 expert handles, got %d", len(handles))
	}

	result := &types.CompareResult{}
	var best *types.ExpertRecord
	for _, h := range handles {
		rec, err := a.ViewProfile(ctx, h)
		if err != nil {
			return nil, err
		}
		result.Experts = append(result.Experts, *rec)
		if rec.ValueScore == nil {
			result.MissingData = append(result.MissingData, rec.Username)
			continue
		}
		if best == nil || *rec.ValueScore > *best.ValueScore {
			best = rec
		}
	}
	if best != nil {
		result.BestValue = best.Username
	}
	result.Screenshot = a.session.TryScreenshot("")
	return result, nil
}

// FillBooking ensures the user is logged in, then runs the fill half of the
// booking machine.
func (a *Agent) FillBooking(ctx context.Context, draft types.BookingDraft) (*types.FillResult, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return nil, err
	}
	if err := a.flow.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	return a.machine.Fill(ctx, draft)
}

// SubmitBooking runs the submit half. It deliberately skips the login check:
// the state validation inside the machine runs before any browser action, and
// a dashboard navigation here would blow away the open form.
func (a *Agent) SubmitBooking(ctx context.Context) (*types.SubmitResult, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return nil, err
	}
	return a.machine.Submit(ctx)
}

// ListCalls extracts the account's calls filtered by status.
func (a *Agent) ListCalls(ctx context.Context, status string) ([]types.CallEntry, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return nil, err
	}
	if err := a.flow.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	if err := a.session.Navigate(ctx, a.cfg.BaseURL+"/calls"); err != nil {
		return nil, err
	}
	doc, err := a.session.Document()
	if err != nil {
		return nil, err
	}
	return extraction.ExtractCalls(doc, types.ParseCallStatus(status)), nil
}

// Screenshot captures the current tab for manual inspection.
func (a *Agent) Screenshot(ctx context.Context, name string, fullPage bool) (string, error) {
	if err := a.session.Acquire(ctx); err != nil {
		return "", err
	}
	return a.session.Screenshot(name, fullPage)
}

// Reset tears the resident browser down and deletes all session state. The
// budget ledger survives; it is append-only history, not session state.
func (a *Agent) Reset(ctx context.Context) error {
	return a.session.Reset(ctx)
}

// Budget exposes the ledger for the CLI's spend summary.
func (a *Agent) Budget() *budget.Ledger {
	return a.ledger
}
