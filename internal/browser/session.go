package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jonathan/consult-agent/internal/config"
)

// Session wraps the resident browser tab plus the persisted handle record.
// Acquire is idempotent within one process; Release is intentionally a no-op so
// the browser stays warm between CLI invocations.
type Session struct {
	cfg   *config.Config
	store *StateStore

	record      *SessionRecord
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	// Top-level navigations are paced to avoid tripping rate heuristics.
	limiter *rate.Limiter
}

// NewSession creates a session over the config's data directory. No browser
// work happens until Acquire.
func NewSession(cfg *config.Config) *Session {
	return &Session{
		cfg:     cfg,
		store:   NewStateStore(cfg.SessionFile()),
		limiter: rate.NewLimiter(rate.Every(1500*time.Millisecond), 1),
	}
}

// Acquire reconnects to the recorded browser endpoint, or launches a fresh
// detached Chrome when there is nothing to reconnect to. Reconnection failure
// deletes the stale record and falls through to launch; it is never fatal.
func (s *Session) Acquire(ctx context.Context) error {
	if s.ctx != nil {
		return nil
	}

	prior := s.store.Load()
	if prior != nil {
		if err := s.connect(prior.WSEndpoint); err == nil {
			s.record = prior
			s.logf("[SESSION] reconnected to %s", prior.WSEndpoint)
			return nil
		}
		s.logf("[SESSION] stale endpoint %s, relaunching", prior.WSEndpoint)
		s.store.Delete()
	}

	ws, err := launchDetached(ctx, s.cfg.ProfileDir(), s.cfg.DebuggingPort, s.cfg.Headless)
	if err != nil {
		return err
	}
	if err := s.connect(ws); err != nil {
		return &LaunchError{Message: "connecting to freshly launched browser", Cause: err}
	}
	s.restoreCookies()

	rec := &SessionRecord{WSEndpoint: ws, CreatedAt: time.Now()}
	if prior != nil {
		// The cookie snapshot carries the login across relaunches; an open
		// booking form does not survive one.
		rec.LoggedIn = prior.LoggedIn
	}
	s.record = rec
	s.logf("[SESSION] launched fresh browser at %s", ws)
	return s.store.Save(rec)
}

// connect attaches to the browser over DevTools and reuses the first open page
// target; no open page counts as a failed reconnect.
func (s *Session) connect(ws string) error {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), ws)
	probeCtx, probeCancel := chromedp.NewContext(allocCtx)

	checkCtx, checkCancel := context.WithTimeout(probeCtx, 5*time.Second)
	defer checkCancel()
	targets, err := chromedp.Targets(checkCtx)
	if err != nil {
		probeCancel()
		allocCancel()
		return err
	}

	var page *target.Info
	for _, t := range targets {
		if t.Type == "page" && !strings.HasPrefix(t.URL, "devtools://") {
			page = t
			break
		}
	}
	if page == nil {
		probeCancel()
		allocCancel()
		return fmt.Errorf("no open page to attach to")
	}
	probeCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithTargetID(page.TargetID))
	attachCtx, attachCancel := context.WithTimeout(tabCtx, 5*time.Second)
	defer attachCancel()
	if err := chromedp.Run(attachCtx); err != nil {
		tabCancel()
		allocCancel()
		return err
	}

	s.allocCancel = allocCancel
	s.ctx = tabCtx
	s.cancel = tabCancel
	return nil
}

// Release keeps the browser resident between invocations. Only Reset tears it
// down.
func (s *Session) Release() {}

// Reset closes the browser and deletes all persisted session state.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.Acquire(ctx); err == nil {
		closeCtx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
		_ = chromedp.Run(closeCtx, cdpbrowser.Close())
		cancel()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.ctx = nil
	s.record = nil
	s.store.Delete()
	_ = os.Remove(s.cfg.CookiesFile())
	s.logf("[SESSION] reset complete")
	return nil
}

// Record returns the live session record, or nil before Acquire.
func (s *Session) Record() *SessionRecord {
	return s.record
}

// UpdateRecord mutates the record in place and persists it.
func (s *Session) UpdateRecord(mutate func(*SessionRecord)) error {
	if s.record == nil {
		return fmt.Errorf("no active session record")
	}
	mutate(s.record)
	return s.store.Save(s.record)
}

// Ctx exposes the chromedp tab context for packages that run their own actions.
func (s *Session) Ctx() context.Context {
	return s.ctx
}

// NewTab opens an isolated child tab sharing the parent session's cookies.
// Callers must cancel it; enrichment closes tabs unconditionally.
func (s *Session) NewTab() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(s.ctx)
}

// Run executes chromedp actions on the session tab under the given timeout.
func (s *Session) Run(timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate drives the tab to url and waits for the body to be ready, with the
// configured bound; on timeout a screenshot is attached for diagnosis.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	s.logf("[SESSION] navigate %s", url)
	if err := s.Run(s.cfg.NavTimeout(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return &TimeoutError{
			Message:    "navigating to " + url,
			Screenshot: s.TryScreenshot(""),
			Cause:      err,
		}
	}
	return nil
}

// Location returns the tab's current URL.
func (s *Session) Location() (string, error) {
	var loc string
	if err := s.Run(s.cfg.StepTimeout(), chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// Document snapshots the rendered DOM for the extraction heuristics.
func (s *Session) Document() (*goquery.Document, error) {
	var html string
	if err := s.Run(s.cfg.StepTimeout(), chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &TimeoutError{Message: "capturing page HTML", Cause: err}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Screenshot captures the tab to a PNG under the screenshots directory and
// returns the file path. An empty name gets a timestamped one.
func (s *Session) Screenshot(name string, fullPage bool) (string, error) {
	if err := os.MkdirAll(s.cfg.ScreenshotsDir, 0o755); err != nil {
		return "", err
	}
	if name == "" {
		name = fmt.Sprintf("shot-%s-%s.png", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	}
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}

	var buf []byte
	action := chromedp.CaptureScreenshot(&buf)
	if fullPage {
		action = chromedp.FullScreenshot(&buf, 90)
	}
	if err := s.Run(s.cfg.StepTimeout(), action); err != nil {
		return "", &TimeoutError{Message: "capturing screenshot", Cause: err}
	}

	path := filepath.Join(s.cfg.ScreenshotsDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// TryScreenshot is the best-effort variant used when attaching evidence to an
// error that is already being returned.
func (s *Session) TryScreenshot(name string) string {
	if s.ctx == nil {
		return ""
	}
	path, err := s.Screenshot(name, false)
	if err != nil {
		return ""
	}
	return path
}

func (s *Session) logf(format string, args ...any) {
	if s.cfg.Verbose {
		log.Printf(format, args...)
	}
}
