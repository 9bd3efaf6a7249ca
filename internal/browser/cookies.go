package browser

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// cookieSnapshot is the persisted shape of one cookie. Only fields needed to
// rebuild the login survive the round trip.
type cookieSnapshot struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"http_only,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
}

// SaveCookies snapshots the browser's cookie jar to disk. Called after a
// successful login and after a successful submit.
func (s *Session) SaveCookies() error {
	var cookies []*network.Cookie
	err := s.Run(s.cfg.StepTimeout(), chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}

	snap := make([]cookieSnapshot, 0, len(cookies))
	for _, c := range cookies {
		snap = append(snap, cookieSnapshot{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.CookiesFile()), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.cfg.CookiesFile(), data, 0o600)
}

// restoreCookies loads the snapshot into a fresh browser. Best effort: a
// missing or corrupt snapshot just means starting logged out.
func (s *Session) restoreCookies() {
	data, err := os.ReadFile(s.cfg.CookiesFile())
	if err != nil {
		return
	}
	var snap []cookieSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logf("[SESSION] cookie snapshot unreadable, starting clean")
		return
	}

	params := make([]*network.CookieParam, 0, len(snap))
	for _, c := range snap {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &exp
		}
		params = append(params, p)
	}

	if err := s.Run(s.cfg.StepTimeout(), network.SetCookies(params)); err != nil {
		s.logf("[SESSION] cookie restore failed: %v", err)
		return
	}
	s.logf("[SESSION] restored %d cookies", len(params))
}
