package auth

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/consult-agent/internal/browser"
	"github.com/jonathan/consult-agent/internal/config"
)

// Field locator tables, tried in order; the first match wins. The site's form
// markup is unstable, so every known variant gets an entry.
var (
	emailStrategies = []browser.Strategy{
		{Name: "email-type", Selector: `input[type="email"]`},
		{Name: "email-name", Selector: `input[name="email"]`},
		{Name: "username-name", Selector: `input[name="username"]`},
		{Name: "email-id", Selector: `input[id*="email"]`},
		{Name: "email-placeholder", Selector: `input[placeholder*="mail"]`},
	}
	passwordStrategies = []browser.Strategy{
		{Name: "password-type", Selector: `input[type="password"]`},
		{Name: "password-name", Selector: `input[name="password"]`},
		{Name: "password-id", Selector: `input[id*="password"]`},
		{Name: "password-placeholder", Selector: `input[placeholder*="assword"]`},
	}
	continueStrategies = []browser.Strategy{
		{Name: "continue-text", Text: "continue"},
		{Name: "next-text", Text: "next"},
	}
	submitStrategies = []browser.Strategy{
		{Name: "submit-button", Selector: `button[type="submit"]`},
		{Name: "submit-input", Selector: `input[type="submit"]`},
		{Name: "login-text", Text: "log in"},
		{Name: "signin-text", Text: "sign in"},
	}

	// loggedInSelectors are indicators that a user menu is rendered.
	loggedInSelectors = []string{
		`a[href*="/logout"]`,
		`a[href*="/settings"]`,
		`a[href*="/account"]`,
		`img[alt*="avatar"]`,
		`[data-user-menu]`,
	}

	dashboardURLRe = regexp.MustCompile(`/(dashboard|home|calls|account)(/|$|\?)`)
)

// Flow runs the login state machine against the session's tab.
type Flow struct {
	session *browser.Session
	cfg     *config.Config
}

// NewFlow wires a login flow over an acquired session.
func NewFlow(session *browser.Session, cfg *config.Config) *Flow {
	return &Flow{session: session, cfg: cfg}
}

// Login navigates to the login page, fills credentials through the strategy
// tables (handling the two-step variant), and waits for either success signal.
// On success the cookie snapshot is persisted and the record's LoggedIn flag
// set.
func (f *Flow) Login(ctx context.Context) error {
	if f.cfg.Email == "" || f.cfg.Password == "" {
		return &AuthError{Message: "no credentials configured (set CONSULT_EMAIL / CONSULT_PASSWORD)"}
	}

	if err := f.session.Navigate(ctx, f.cfg.BaseURL+"/login"); err != nil {
		return &AuthError{Message: "login page unreachable", Screenshot: f.session.TryScreenshot(""), Cause: err}
	}

	if _, ok := f.session.FillFirst(emailStrategies, f.cfg.Email); !ok {
		return &AuthError{Message: "no email field found on login page", Screenshot: f.session.TryScreenshot("")}
	}

	// Two-step variant: the password field only appears after a continue click.
	if _, ok := f.session.FillFirst(passwordStrategies, f.cfg.Password); !ok {
		if _, clicked := f.session.ClickFirst(continueStrategies); clicked {
			time.Sleep(1 * time.Second)
		}
		if _, ok := f.session.FillFirst(passwordStrategies, f.cfg.Password); !ok {
			return &AuthError{Message: "no password field found after continue step", Screenshot: f.session.TryScreenshot("")}
		}
	}

	if _, ok := f.session.ClickFirst(submitStrategies); !ok {
		return &AuthError{Message: "no login submit control found", Screenshot: f.session.TryScreenshot("")}
	}

	if !f.awaitLoggedIn(ctx, f.cfg.NavTimeout()) {
		return &AuthError{Message: "login did not reach a logged-in state", Screenshot: f.session.TryScreenshot("")}
	}

	if err := f.session.SaveCookies(); err != nil {
		f.logf("[AUTH] cookie snapshot failed: %v", err)
	}
	f.logf("[AUTH] logged in as %s", f.cfg.Email)
	return f.session.UpdateRecord(func(rec *browser.SessionRecord) {
		rec.LoggedIn = true
	})
}

// awaitLoggedIn polls both success conditions (dashboard-pattern URL and
// logged-in indicator element) until one resolves or the bound expires.
func (f *Flow) awaitLoggedIn(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(500 * time.Millisecond):
		}

		if loc, err := f.session.Location(); err == nil {
			if dashboardURLRe.MatchString(loc) && !strings.Contains(loc, "/login") {
				return true
			}
		}
		for _, sel := range loggedInSelectors {
			if f.session.Exists(sel) {
				return true
			}
		}
	}
	return false
}

// EnsureLoggedIn trusts the LoggedIn flag only after confirming the session is
// still live via a lightweight dashboard navigation. One silent re-login is
// attempted if the check fails, never more.
func (f *Flow) EnsureLoggedIn(ctx context.Context) error {
	rec := f.session.Record()
	if rec != nil && rec.LoggedIn {
		if f.sessionStillValid(ctx) {
			return nil
		}
		f.logf("[AUTH] stale login, retrying once")
		_ = f.session.UpdateRecord(func(r *browser.SessionRecord) { r.LoggedIn = false })
	}
	return f.Login(ctx)
}

func (f *Flow) sessionStillValid(ctx context.Context) bool {
	if err := f.session.Navigate(ctx, f.cfg.BaseURL+"/dashboard"); err != nil {
		return false
	}
	loc, err := f.session.Location()
	if err != nil {
		return false
	}
	return !strings.Contains(loc, "/login") && !strings.Contains(loc, "/signup")
}

func (f *Flow) logf(format string, args ...any) {
	if f.cfg.Verbose {
		log.Printf(format, args...)
	}
}
