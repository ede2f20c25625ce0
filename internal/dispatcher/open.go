package dispatcher

import (
	"fmt"
	"net/url"
	"strings"

	"tabdeck/internal/urlutil"
)

// OpenFlags select where a URL opens. At most one may be set.
type OpenFlags struct {
	Tab     bool
	Bg      bool
	Window  bool
	Private bool
	Related bool
	Secure  bool
}

// OpenURL opens the given input. Multi-line input opens one tab per
// line; with a count a single URL replaces the addressed tab instead.
// The count is ignored for multi-line input.
func (d *Dispatcher) OpenURL(input string, flags OpenFlags, count int) error {
	if input == "" && count == 0 {
		return d.open(nil, flags.Tab, flags.Bg, flags.Window, flags.Private, flags.Related)
	}

	urls, err := d.parseURLInput(input)
	if err != nil {
		return err
	}

	for i, u := range urls {
		if flags.Secure {
			if u.Scheme == "http" {
				u.Scheme = "https"
			}
		}

		switch {
		case i > 0:
			// Lines after the first open as background tabs
			d.win.Open(u, true, true)
		case count != 0 && len(urls) == 1:
			// The count only addresses a tab for single-URL input
			t, err := d.tabAt(count)
			if err != nil {
				return err
			}
			if t.Pinned() {
				d.msg.Info(fmt.Sprintf("tab %d is pinned", count))
				continue
			}
			t.Load(u)
			d.win.SetCurrentIndex(count - 1)
		default:
			if err := d.open(u, flags.Tab || flags.Related, flags.Bg, flags.Window, flags.Private, flags.Related); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseURLInput resolves user input into one or more URLs. Multi-line
// input opens per line, unless the first line is neither a URL nor an
// existing path; then the whole block is a single search query.
func (d *Dispatcher) parseURLInput(input string) ([]*url.URL, error) {
	lines := strings.Split(strings.Trim(input, "\n"), "\n")

	if len(lines) > 1 {
		first := strings.TrimSpace(lines[0])
		if !urlutil.IsURL(first) && urlutil.PathIfValid(first, true) == "" {
			u, err := urlutil.FuzzyURL(input, urlutil.Options{
				ForceSearch:   true,
				SearchEngines: d.cfg.URL.SearchEngines,
			})
			if err != nil {
				return nil, wrapErr(err)
			}
			return []*url.URL{u}, nil
		}
	}

	var urls []*url.URL
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		u, err := d.resolveLine(line)
		if err != nil {
			// Unresolvable lines are skipped, not fatal
			d.msg.Warning(fmt.Sprintf("invalid URL %q: %v", line, err))
			continue
		}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, cmdErr(ErrUsage, "no valid URL in %q", input)
	}
	return urls, nil
}

// resolveLine tries a quickmark name first, then URL-or-search
func (d *Dispatcher) resolveLine(line string) (*url.URL, error) {
	if d.quickmarks != nil {
		if u, err := d.quickmarks.Get(line); err == nil {
			return u, nil
		}
	}
	return urlutil.FuzzyURL(line, urlutil.Options{
		SearchEngines: d.cfg.URL.SearchEngines,
	})
}

// Back goes back in the current tab's history, optionally in a clone
func (d *Dispatcher) Back(tab, bg, window bool, count int) error {
	return d.historyStep(false, tab, bg, window, repeat(count))
}

// Forward goes forward in the current tab's history
func (d *Dispatcher) Forward(tab, bg, window bool, count int) error {
	return d.historyStep(true, tab, bg, window, repeat(count))
}

func (d *Dispatcher) historyStep(forward, tab, bg, window bool, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	// Check the boundary before cloning anything
	if forward && !t.History().CanGoForward() {
		return cmdErr(ErrUsage, "at end of history")
	}
	if !forward && !t.History().CanGoBack() {
		return cmdErr(ErrUsage, "at beginning of history")
	}

	if tab || bg || window {
		clone, err := d.cloneTab(bg, window)
		if err != nil {
			return err
		}
		t = clone
	}

	if forward {
		return wrapErr(t.History().Forward(count))
	}
	return wrapErr(t.History().Back(count))
}

// Navigate rewrites or follows the current URL: prev/next follow page
// links, up strips path components, increment/decrement adjust the last
// number in the URL
func (d *Dispatcher) Navigate(where string, tab, bg, window bool, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	u, err := t.URL()
	if err != nil {
		return wrapErr(err)
	}
	d.saveJumpMark()

	var next *url.URL
	switch where {
	case "prev":
		// Follow rel=prev/next style page links
		return wrapErr(t.Action().Run("NavigatePrev"))
	case "next":
		return wrapErr(t.Action().Run("NavigateNext"))
	case "up":
		next, err = urlutil.PathUp(u, repeat(count))
	case "increment":
		next, err = urlutil.Incdec(u, repeat(count), d.cfg.URL.IncdecSegments)
	case "decrement":
		next, err = urlutil.Incdec(u, -repeat(count), d.cfg.URL.IncdecSegments)
	default:
		return cmdErr(ErrUsage,
			"invalid value %q for where, expected prev/next/up/increment/decrement", where)
	}
	if err != nil {
		return wrapErr(err)
	}
	return d.open(next, tab, bg, window, false, false)
}

// Home opens the configured start page in the current tab
func (d *Dispatcher) Home() error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	pages := d.cfg.URL.StartPages
	page := d.cfg.URL.DefaultPage
	if len(pages) > 0 {
		page = pages[0]
	}
	u, err := url.Parse(page)
	if err != nil {
		return wrapErr(err)
	}
	t.Load(u)
	return nil
}

// Reload reloads the addressed tab
func (d *Dispatcher) Reload(force bool, count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	t.Reload(force)
	return nil
}

// Stop aborts loading in the addressed tab
func (d *Dispatcher) Stop(count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	t.Stop()
	return nil
}
