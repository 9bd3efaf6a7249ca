package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/budget"
	"github.com/jonathan/consult-agent/internal/config"
	"github.com/jonathan/consult-agent/internal/types"
)

// fakeDriver serves canned pages and records every click so the submit paths
// past the state gate are testable without a browser.
type fakeDriver struct {
	rec            *browser.SessionRecord
	html           string
	docErr         error
	failClicks     bool
	paymentVisible bool
	clicks         []string
	filled         map[string]string
}

func (f *fakeDriver) Record() *browser.SessionRecord { return f.rec }

func (f *fakeDriver) UpdateRecord(mutate func(*browser.SessionRecord)) error {
	if f.rec == nil {
		return errors.New("no active session record")
	}
	mutate(f.rec)
	return nil
}

func (f *fakeDriver) Navigate(context.Context, string) error { return nil }

func (f *fakeDriver) Document() (*goquery.Document, error) {
	if f.docErr != nil {
		return nil, f.docErr
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func (f *fakeDriver) ClickFirst(table []browser.Strategy) (string, bool) {
	if f.failClicks {
		return "", false
	}
	f.clicks = append(f.clicks, table[0].Name)
	return table[0].Name, true
}

func (f *fakeDriver) FillFirst(table []browser.Strategy, value string) (string, bool) {
	if f.filled == nil {
		f.filled = make(map[string]string)
	}
	f.filled[table[0].Name] = value
	return table[0].Name, true
}

func (f *fakeDriver) SelectByValue(string, string) bool           { return false }
func (f *fakeDriver) Exists(string) bool                          { return f.paymentVisible }
func (f *fakeDriver) Run(time.Duration, ...chromedp.Action) error { return nil }
func (f *fakeDriver) Screenshot(string, bool) (string, error)     { return "shot.png", nil }
func (f *fakeDriver) TryScreenshot(string) string                 { return "shot.png" }
func (f *fakeDriver) SaveCookies() error                          { return nil }

// filledDriver returns a driver whose record says a form was filled for alice.
func filledDriver(html string) *fakeDriver {
	return &fakeDriver{
		rec: &browser.SessionRecord{
			WSEndpoint:    "ws://test",
			BookingFilled: true,
			CurrentExpert: "alice",
			Draft:         &types.BookingDraft{Expert: "alice", Duration: 30, Topic: "pricing", EstimatedCost: 255.0},
		},
		html: html,
	}
}

func testMachine(t *testing.T, driver Driver) (*Machine, *budget.Ledger) {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	ledger := budget.NewLedger(cfg.LedgerFile(), 500)
	m := NewMachine(driver, cfg, ledger)
	m.settle = 0
	return m, ledger
}

func TestValidateSubmitState(t *testing.T) {
	tests := []struct {
		name    string
		rec     *browser.SessionRecord
		wantErr bool
	}{
		{"Nil record fails closed", nil, true},
		{"Not filled fails closed", &browser.SessionRecord{BookingFilled: false}, true},
		{"Filled without expert fails closed", &browser.SessionRecord{BookingFilled: true}, true},
		{"Filled for expert passes", &browser.SessionRecord{BookingFilled: true, CurrentExpert: "alice"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSubmitState(tt.rec)
			if tt.wantErr {
				var sv *StateViolationError
				require.ErrorAs(t, err, &sv)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitWithoutFillTouchesNoBrowser(t *testing.T) {
	// A session that was never acquired has no record and no live browser; the
	// state gate must reject the submit before any browser interaction could
	// happen (any attempted chromedp action here would panic or hang).
	cfg := &config.Config{DataDir: t.TempDir()}
	cfg.ScreenshotsDir = cfg.DataDir
	session := browser.NewSession(cfg)
	ledger := budget.NewLedger(cfg.LedgerFile(), 500)
	m := NewMachine(session, cfg, ledger)

	result, err := m.Submit(context.Background())
	assert.Nil(t, result)
	var sv *StateViolationError
	require.ErrorAs(t, err, &sv)
}

func TestBookingDraftValidation(t *testing.T) {
	base := types.BookingDraft{Expert: "alice", Duration: 30, Topic: "pricing strategy"}

	tests := []struct {
		name   string
		mutate func(*types.BookingDraft)
		valid  bool
	}{
		{"Valid draft", func(d *types.BookingDraft) {}, true},
		{"Duration at lower bound", func(d *types.BookingDraft) { d.Duration = 15 }, true},
		{"Duration at upper bound", func(d *types.BookingDraft) { d.Duration = 120 }, true},
		{"Duration below bound", func(d *types.BookingDraft) { d.Duration = 10 }, false},
		{"Duration above bound", func(d *types.BookingDraft) { d.Duration = 180 }, false},
		{"Missing expert", func(d *types.BookingDraft) { d.Expert = "" }, false},
		{"Missing topic", func(d *types.BookingDraft) { d.Topic = "" }, false},
		{"Three slots ok", func(d *types.BookingDraft) {
			d.Slots = []time.Time{time.Now(), time.Now(), time.Now()}
		}, true},
		{"Four slots rejected", func(d *types.BookingDraft) {
			d.Slots = []time.Time{time.Now(), time.Now(), time.Now(), time.Now()}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := base
			tt.mutate(&draft)
			err := validate.Struct(draft)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSubmitPaymentHandoff(t *testing.T) {
	driver := filledDriver("<html><body>checkout</body></html>")
	driver.paymentVisible = true
	m, ledger := testMachine(t, driver)

	result, err := m.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.RequiresManualPayment)
	assert.Nil(t, result.Confirmation)
	assert.NotEmpty(t, result.Screenshot)
	assert.False(t, driver.rec.BookingFilled)
	assert.Zero(t, ledger.GetMonthlySpend(""), "a handed-off payment is not booked spend")
	clicks := len(driver.clicks)

	// The handoff is terminal: a second submit fails closed without another
	// click reaching the page.
	result, err = m.Submit(context.Background())
	assert.Nil(t, result)
	var sv *StateViolationError
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, clicks, len(driver.clicks))
}

func TestSubmitReadFailureIsTerminal(t *testing.T) {
	driver := filledDriver("")
	driver.docErr = errors.New("target crashed")
	m, _ := testMachine(t, driver)

	result, err := m.Submit(context.Background())
	assert.Nil(t, result)
	var sf *SubmitFailureError
	require.ErrorAs(t, err, &sf)
	assert.Contains(t, err.Error(), "DO NOT retry")
	assert.False(t, driver.rec.BookingFilled,
		"a failure after the click must not leave the form submittable")
	clicks := len(driver.clicks)

	result, err = m.Submit(context.Background())
	assert.Nil(t, result)
	var sv *StateViolationError
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, clicks, len(driver.clicks))
}

func TestSubmitParsesConfirmationAndRecordsSpend(t *testing.T) {
	driver := filledDriver(`<html><body>Your call is booked!
Call ID: CA-1234
Total cost: $255.00</body></html>`)
	m, ledger := testMachine(t, driver)

	result, err := m.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Confirmation)
	assert.Equal(t, "CA-1234", result.Confirmation.CallID)
	assert.Equal(t, 255.0, result.Confirmation.TotalCost)
	assert.False(t, driver.rec.BookingFilled)
	assert.Nil(t, driver.rec.Draft)
	assert.Equal(t, 255.0, ledger.GetMonthlySpend(""))
}

func TestFillRecordsStateAndEstimate(t *testing.T) {
	driver := &fakeDriver{
		rec:  &browser.SessionRecord{WSEndpoint: "ws://test"},
		html: `<html><head><title>T – Alice Anders – Clarity</title></head><body>$8.50/min Request a Call</body></html>`,
	}
	m, _ := testMachine(t, driver)

	result, err := m.Fill(context.Background(), types.BookingDraft{Expert: "alice", Duration: 30, Topic: "pricing"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Anders", result.ExpertName)
	assert.Equal(t, 255.0, result.EstimatedCost)
	assert.Equal(t, 8.50, result.CostPerMinute)
	assert.Empty(t, result.BudgetWarning)
	assert.True(t, driver.rec.BookingFilled)
	assert.Equal(t, "alice", driver.rec.CurrentExpert)
	require.NotNil(t, driver.rec.Draft)
	assert.Equal(t, 255.0, driver.rec.Draft.EstimatedCost)
}

func TestEstimatedCostRoundTrip(t *testing.T) {
	// estimatedCost = duration × costPerMinute exactly, for the full duration
	// range.
	rate := 8.50
	for duration := 15; duration <= 120; duration++ {
		estimated := estimateCost(rate, duration)
		assert.Equal(t, estimateCost(estimated/float64(duration), duration), estimated)
		assert.InDelta(t, rate*float64(duration), estimated, 0.005)
	}
}
