package booking

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/budget"
	"github.com/jonathan/consult-agent/internal/config"
	"github.com/jonathan/consult-agent/internal/extraction"
	"github.com/jonathan/consult-agent/internal/types"
)

// submitSettleDelay gives the site time to render either the payment step or
// the confirmation before we inspect the page.
const submitSettleDelay = 3 * time.Second

var validate = validator.New()

// estimateCost is rate × duration at currency precision.
func estimateCost(ratePerMinute float64, duration int) float64 {
	return math.Round(ratePerMinute*float64(duration)*100) / 100
}

// Driver is the browser surface the booking machine drives. *browser.Session
// implements it; tests substitute a fake so the paths past the submit click
// are exercisable without Chrome.
type Driver interface {
	Record() *browser.SessionRecord
	UpdateRecord(mutate func(*browser.SessionRecord)) error
	Navigate(ctx context.Context, url string) error
	Document() (*goquery.Document, error)
	ClickFirst(table []browser.Strategy) (string, bool)
	FillFirst(table []browser.Strategy, value string) (string, bool)
	SelectByValue(selector, value string) bool
	Exists(selector string) bool
	Run(timeout time.Duration, actions ...chromedp.Action) error
	Screenshot(name string, fullPage bool) (string, error)
	TryScreenshot(name string) string
	SaveCookies() error
}

// Machine drives the booking lifecycle over the shared session. All cross-call
// state lives in the persisted SessionRecord; Submit validates it before
// touching the browser at all.
type Machine struct {
	session Driver
	cfg     *config.Config
	ledger  *budget.Ledger
	settle  time.Duration
}

// NewMachine wires the booking machine over an acquired session.
func NewMachine(session Driver, cfg *config.Config, ledger *budget.Ledger) *Machine {
	return &Machine{session: session, cfg: cfg, ledger: ledger, settle: submitSettleDelay}
}

// Fill opens the expert's profile, opens the request-call form and fills it
// best-effort: a missing optional field is skipped, not fatal. On success the
// session records the filled form for this expert and the caller gets a screenshot
// to review before ever calling Submit.
func (m *Machine) Fill(ctx context.Context, draft types.BookingDraft) (*types.FillResult, error) {
	if err := validate.Struct(draft); err != nil {
		return nil, &StateViolationError{Message: "invalid booking draft: " + err.Error()}
	}

	profileURL := m.cfg.BaseURL + "/" + draft.Expert
	if err := m.session.Navigate(ctx, profileURL); err != nil {
		return nil, err
	}
	doc, err := m.session.Document()
	if err != nil {
		return nil, err
	}
	profile := extraction.ExtractProfile(doc, draft.Expert, profileURL)
	rate := profile.RatePerMinute
	estimated := estimateCost(rate, draft.Duration)

	if _, ok := m.session.ClickFirst(requestCallStrategies); !ok {
		return nil, &UnavailableError{Expert: draft.Expert, Screenshot: m.session.TryScreenshot("")}
	}
	time.Sleep(1500 * time.Millisecond)

	m.fillDuration(draft.Duration)
	m.fillTopic(draft.Topic)
	if draft.Phone != "" {
		m.session.FillFirst(phoneStrategies, draft.Phone)
	}
	m.fillSlots(draft.Slots)

	shot, err := m.session.Screenshot("booking-fill-"+draft.Expert, false)
	if err != nil {
		m.logf("[BOOKING] fill screenshot failed: %v", err)
	}

	draft.EstimatedCost = estimated
	if err := m.session.UpdateRecord(func(rec *browser.SessionRecord) {
		rec.BookingFilled = true
		rec.CurrentExpert = draft.Expert
		rec.Draft = &draft
	}); err != nil {
		return nil, err
	}
	m.logf("[BOOKING] form filled for %s, estimated $%.2f", draft.Expert, estimated)

	name := profile.Name
	if name == "" {
		name = draft.Expert
	}
	return &types.FillResult{
		Screenshot:    shot,
		ExpertName:    name,
		EstimatedCost: estimated,
		CostPerMinute: rate,
		Duration:      draft.Duration,
		BudgetWarning: m.ledger.Warning(estimated),
	}, nil
}

// Submit clicks the confirm control for the booking filled earlier in this
// session. It fails closed with a state violation, performing no browser
// action, when no such booking exists. A detected payment step hands off to
// the human; any other failure is terminal and flagged do-not-retry.
func (m *Machine) Submit(ctx context.Context) (*types.SubmitResult, error) {
	rec := m.session.Record()
	if err := validateSubmitState(rec); err != nil {
		return nil, err
	}
	draft := rec.Draft
	expert := rec.CurrentExpert

	if _, ok := m.session.ClickFirst(submitConfirmStrategies); !ok {
		return nil, &SubmitFailureError{
			Message:    "no submit control found on booking form",
			Screenshot: m.session.TryScreenshot(""),
		}
	}
	time.Sleep(m.settle)

	if m.paymentPresent() {
		shot := m.session.TryScreenshot("booking-payment-" + expert)
		if err := m.clearFilled(); err != nil {
			m.logf("[BOOKING] state clear failed: %v", err)
		}
		m.logf("[BOOKING] payment step detected for %s, handing off", expert)
		return &types.SubmitResult{
			RequiresManualPayment: true,
			Message:               "a payment form appeared; complete it manually in the browser. This step is never retried automatically.",
			Screenshot:            shot,
		}, nil
	}

	doc, err := m.session.Document()
	if err != nil {
		// The click already happened: clear the filled state so a retry fails
		// closed instead of re-clicking submit.
		if cerr := m.clearFilled(); cerr != nil {
			m.logf("[BOOKING] state clear failed: %v", cerr)
		}
		return nil, &SubmitFailureError{
			Message:    "could not read confirmation page",
			Screenshot: m.session.TryScreenshot(""),
			Cause:      err,
		}
	}

	conf := ParseConfirmation(doc.Find("body").Text())
	conf.Screenshot = m.session.TryScreenshot("booking-confirm-" + expert)

	if err := m.session.SaveCookies(); err != nil {
		m.logf("[BOOKING] cookie snapshot failed: %v", err)
	}
	if err := m.clearFilled(); err != nil {
		return nil, &SubmitFailureError{Message: "submitted but failed to persist state", Cause: err, Screenshot: conf.Screenshot}
	}
	if draft != nil {
		rate := draft.EstimatedCost / float64(draft.Duration)
		if err := m.ledger.AddEntry(expert, draft.Duration, rate); err != nil {
			m.logf("[BOOKING] ledger append failed: %v", err)
		}
	}
	m.logf("[BOOKING] submitted for %s", expert)
	return &types.SubmitResult{Confirmation: &conf, Screenshot: conf.Screenshot}, nil
}

// validateSubmitState is the fail-closed gate: submit only proceeds when this
// session filled a form and still knows which expert it belongs to.
func validateSubmitState(rec *browser.SessionRecord) error {
	if rec == nil || !rec.BookingFilled || rec.CurrentExpert == "" {
		return &StateViolationError{Message: "no booking form filled in this session; run fill first"}
	}
	return nil
}

func (m *Machine) clearFilled() error {
	return m.session.UpdateRecord(func(rec *browser.SessionRecord) {
		rec.BookingFilled = false
		rec.CurrentExpert = ""
		rec.Draft = nil
	})
}

// fillDuration tries dropdown-by-value, dropdown-by-label, then a plain input,
// in that order.
func (m *Machine) fillDuration(minutes int) {
	value := strconv.Itoa(minutes)
	for _, st := range durationSelectStrategies {
		if m.session.SelectByValue(st.Selector, value) {
			m.logf("[BOOKING] duration set via %s", st.Name)
			return
		}
	}
	m.session.FillFirst(durationInputStrategies, value)
}

func (m *Machine) fillTopic(topic string) {
	if _, ok := m.session.FillFirst(topicStrategies, topic); !ok {
		m.logf("[BOOKING] no topic field found, skipping")
	}
}

// fillSlots fills up to three proposed time slots positionally. Direct value
// assignment is tried first; a native-setter fallback handles
// framework-controlled inputs that ignore ordinary fill events.
func (m *Machine) fillSlots(slots []time.Time) {
	for i, slot := range slots {
		if i >= 3 {
			break
		}
		value := slot.Format("2006-01-02T15:04")
		script := fmt.Sprintf(`(() => {
			const fields = document.querySelectorAll(%q);
			const el = fields[%d];
			if (!el) return 'missing';
			el.focus();
			el.value = %q;
			el.dispatchEvent(new Event('input', { bubbles: true }));
			el.dispatchEvent(new Event('change', { bubbles: true }));
			if (el.value === %q) return 'direct';
			const proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
			Object.getOwnPropertyDescriptor(proto, 'value').set.call(el, %q);
			el.dispatchEvent(new Event('input', { bubbles: true }));
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return 'native';
		})()`, slotFieldSelectors, i, value, value, value)

		var how string
		if err := m.session.Run(m.cfg.StepTimeout(), chromedp.Evaluate(script, &how)); err != nil {
			m.logf("[BOOKING] slot %d fill failed: %v", i+1, err)
			continue
		}
		m.logf("[BOOKING] slot %d filled (%s)", i+1, how)
	}
}

// paymentPresent scans for embedded payment-provider markers.
func (m *Machine) paymentPresent() bool {
	for _, sel := range paymentMarkers {
		if m.session.Exists(sel) {
			return true
		}
	}
	return false
}

func (m *Machine) logf(format string, args ...any) {
	if m.cfg.Verbose {
		log.Printf(format, args...)
	}
}
