package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Strategy is one way to locate a control. Tables of strategies are tried in
// order; the first that matches wins. Either Selector (CSS) or Text (visible
// button/link text, matched case-insensitively) is set.
type Strategy struct {
	Name     string
	Selector string
	Text     string
}

// perStrategyTimeout bounds each individual probe so a long table still fits
// inside one step budget.
const perStrategyTimeout = 1500 * time.Millisecond

// Exists reports whether any element matches the CSS selector right now.
func (s *Session) Exists(selector string) bool {
	var found bool
	script := fmt.Sprintf(`!!document.querySelector(%q)`, selector)
	if err := s.Run(perStrategyTimeout, chromedp.Evaluate(script, &found)); err != nil {
		return false
	}
	return found
}

// FillFirst tries each strategy in order and types value into the first
// matching field. It returns the winning strategy name.
func (s *Session) FillFirst(table []Strategy, value string) (string, bool) {
	for _, st := range table {
		if st.Selector == "" {
			continue
		}
		if !s.Exists(st.Selector) {
			continue
		}
		err := s.Run(perStrategyTimeout,
			chromedp.Clear(st.Selector, chromedp.ByQuery),
			chromedp.SendKeys(st.Selector, value, chromedp.ByQuery),
		)
		if err == nil {
			s.logf("[STRATEGY] filled via %s", st.Name)
			return st.Name, true
		}
	}
	return "", false
}

// ClickFirst tries each strategy in order and clicks the first match. CSS
// strategies use a plain click; text strategies scan clickable elements for a
// case-insensitive substring match.
func (s *Session) ClickFirst(table []Strategy) (string, bool) {
	for _, st := range table {
		var ok bool
		switch {
		case st.Selector != "":
			if !s.Exists(st.Selector) {
				continue
			}
			ok = s.Run(perStrategyTimeout, chromedp.Click(st.Selector, chromedp.ByQuery)) == nil
		case st.Text != "":
			ok = s.clickByText(st.Text)
		}
		if ok {
			s.logf("[STRATEGY] clicked via %s", st.Name)
			return st.Name, true
		}
	}
	return "", false
}

// clickByText clicks the first clickable element whose visible text contains
// the given string.
func (s *Session) clickByText(text string) bool {
	script := fmt.Sprintf(`(() => {
		const want = %q.toLowerCase();
		const candidates = document.querySelectorAll('button, a, [role="button"], input[type="submit"]');
		for (const el of candidates) {
			const t = (el.innerText || el.value || '').replace(/\s+/g, ' ').trim().toLowerCase();
			if (t && t.includes(want)) { el.click(); return true; }
		}
		return false;
	})()`, strings.TrimSpace(text))

	var clicked bool
	if err := s.Run(perStrategyTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return false
	}
	return clicked
}

// SetValueJS assigns a value directly on the element and fires input/change
// events. Framework-controlled inputs that swallow synthetic keystrokes still
// pick the value up this way.
func (s *Session) SetValueJS(selector, value string) bool {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const proto = el.tagName === 'SELECT' ? HTMLSelectElement.prototype :
			el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
		setter.call(el, %q);
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, selector, value)

	var ok bool
	if err := s.Run(perStrategyTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return false
	}
	return ok
}

// SelectByValue picks a dropdown option by value, falling back to label match.
func (s *Session) SelectByValue(selector, value string) bool {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el || el.tagName !== 'SELECT') return false;
		const want = %q;
		for (const opt of el.options) {
			if (opt.value === want) { el.value = opt.value; el.dispatchEvent(new Event('change', { bubbles: true })); return true; }
		}
		for (const opt of el.options) {
			if (opt.label.toLowerCase().includes(want.toLowerCase())) { el.value = opt.value; el.dispatchEvent(new Event('change', { bubbles: true })); return true; }
		}
		return false;
	})()`, selector, value)

	var ok bool
	if err := s.Run(perStrategyTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return false
	}
	return ok
}
