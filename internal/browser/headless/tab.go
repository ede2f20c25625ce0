package headless

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"tabdeck/internal/browser"
	"tabdeck/internal/domain"
)

// Tab is the headless browser.Tab implementation
type Tab struct {
	win *Window

	url           *url.URL
	title         string
	pinned        bool
	viewingSource bool
	loading       bool

	doc *Document

	history    []browser.HistoryEntry
	historyIdx int // index of the current entry, -1 when empty

	zoomFactor float64

	search searchState
	caret  caretState
	elems  *elementStore
	audio  audioState

	keyLog []string // fake key sequences delivered to the page
}

func newTab(win *Window) *Tab {
	return &Tab{
		win:        win,
		doc:        NewDocument(nil),
		historyIdx: -1,
		zoomFactor: float64(win.reg.cfg.Zoom.Default) / 100,
		elems:      newElementStore(),
	}
}

// URL returns the current URL; an error when the tab has none yet
func (t *Tab) URL() (*url.URL, error) {
	if t.url == nil {
		return nil, fmt.Errorf("current URL is invalid")
	}
	return t.url, nil
}

// Title returns the page title
func (t *Tab) Title() string { return t.title }

// Load navigates the tab to the given URL
func (t *Tab) Load(u *url.URL) {
	t.loading = true
	title, doc := t.win.reg.load(u)
	t.url = u
	t.title = title
	t.doc = doc
	t.viewingSource = u.Scheme == "view-source"
	t.search = searchState{}
	t.caret = caretState{}
	t.loading = false

	// Truncate forward history and append
	t.history = append(t.history[:t.historyIdx+1], browser.HistoryEntry{
		URL:   u.String(),
		Title: title,
	})
	t.historyIdx = len(t.history) - 1
	t.win.urlChanged(t)
}

// Reload re-renders the current page
func (t *Tab) Reload(force bool) {
	if t.url == nil {
		return
	}
	_ = force // no cache to bypass
	title, doc := t.win.reg.load(t.url)
	t.title = title
	t.doc = doc
}

// Stop aborts a load in progress
func (t *Tab) Stop() { t.loading = false }

func (t *Tab) Pinned() bool          { return t.pinned }
func (t *Tab) SetPinned(pinned bool) { t.pinned = pinned }
func (t *Tab) ViewingSource() bool   { return t.viewingSource }

func (t *Tab) History() browser.History   { return (*tabHistory)(t) }
func (t *Tab) Scroller() browser.Scroller { return (*tabScroller)(t) }
func (t *Tab) Zoom() browser.Zoom         { return (*tabZoom)(t) }
func (t *Tab) Search() browser.Search     { return (*tabSearch)(t) }
func (t *Tab) Caret() browser.Caret       { return (*tabCaret)(t) }
func (t *Tab) Elements() browser.Elements { return t.elems }
func (t *Tab) Audio() browser.Audio       { return (*tabAudio)(t) }
func (t *Tab) Printing() browser.Printing { return (*tabPrinting)(t) }
func (t *Tab) Action() browser.Action     { return (*tabAction)(t) }

// DumpAsync delivers the page text to cb
func (t *Tab) DumpAsync(plain bool, cb func(data string)) {
	data := t.doc.text()
	if !plain {
		data = "<pre>\n" + data + "\n</pre>"
	}
	cb(data)
}

// RunJS is unsupported without a JS engine
func (t *Tab) RunJS(code string, cb func(out string)) error {
	return browser.ErrUnsupported
}

// SendKeys records the fake key sequence
func (t *Tab) SendKeys(keys string) error {
	t.keyLog = append(t.keyLog, keys)
	return nil
}

// KeyLog returns the fake key sequences sent to this tab
func (t *Tab) KeyLog() []string { return t.keyLog }

// tabHistory implements browser.History
type tabHistory Tab

func (h *tabHistory) CanGoBack() bool    { return h.historyIdx > 0 }
func (h *tabHistory) CanGoForward() bool { return h.historyIdx < len(h.history)-1 }

func (h *tabHistory) Back(count int) error {
	if !h.CanGoBack() {
		return fmt.Errorf("at beginning of history")
	}
	h.historyIdx = clamp(h.historyIdx-count, 0, len(h.history)-1)
	(*Tab)(h).restoreHistoryEntry()
	return nil
}

func (h *tabHistory) Forward(count int) error {
	if !h.CanGoForward() {
		return fmt.Errorf("at end of history")
	}
	h.historyIdx = clamp(h.historyIdx+count, 0, len(h.history)-1)
	(*Tab)(h).restoreHistoryEntry()
	return nil
}

func (h *tabHistory) Serialize() ([]browser.HistoryEntry, error) {
	out := make([]browser.HistoryEntry, len(h.history))
	copy(out, h.history)
	return out, nil
}

func (h *tabHistory) Deserialize(entries []browser.HistoryEntry) error {
	h.history = make([]browser.HistoryEntry, len(entries))
	copy(h.history, entries)
	h.historyIdx = len(h.history) - 1
	if h.historyIdx >= 0 {
		(*Tab)(h).restoreHistoryEntry()
	}
	return nil
}

// restoreHistoryEntry re-renders the entry at historyIdx without
// touching the history list
func (t *Tab) restoreHistoryEntry() {
	entry := t.history[t.historyIdx]
	u, err := url.Parse(entry.URL)
	if err != nil {
		return
	}
	title, doc := t.win.reg.load(u)
	t.url = u
	t.title = title
	t.doc = doc
	t.win.urlChanged(t)
}

// tabZoom implements browser.Zoom on the configured level ladder
type tabZoom Tab

func (z *tabZoom) Factor() float64 { return z.zoomFactor }

func (z *tabZoom) SetFactor(factor float64) error {
	if factor < 0.1 || factor > 10 {
		return fmt.Errorf("factor %.2f out of range", factor)
	}
	z.zoomFactor = factor
	return nil
}

// Offset moves steps up or down the zoom ladder and returns the new
// level in percent
func (z *tabZoom) Offset(steps int) (int, error) {
	levels := z.win.reg.cfg.Zoom.Levels
	if len(levels) == 0 {
		return 0, fmt.Errorf("no zoom levels configured")
	}
	cur := int(z.zoomFactor*100 + 0.5)

	// Nearest ladder position at or below the current level
	pos := 0
	for i, l := range levels {
		if l <= cur {
			pos = i
		}
	}
	pos = clamp(pos+steps, 0, len(levels)-1)
	level := levels[pos]
	if level == cur && (pos == 0 || pos == len(levels)-1) {
		if steps > 0 {
			return 0, fmt.Errorf("can't zoom in any further")
		}
		return 0, fmt.Errorf("can't zoom out any further")
	}
	z.zoomFactor = float64(level) / 100
	return level, nil
}

// tabAudio implements browser.Audio
type tabAudio Tab

type audioState struct {
	muted bool
}

func (a *tabAudio) Muted() bool { return a.audio.muted }

func (a *tabAudio) ToggleMuted() error {
	a.audio.muted = !a.audio.muted
	return nil
}

// tabPrinting implements browser.Printing. Headless can write a page to
// a file but has no print dialog.
type tabPrinting Tab

func (p *tabPrinting) CheckPreviewSupport() error { return browser.ErrUnsupported }
func (p *tabPrinting) CheckPDFSupport() error     { return nil }

func (p *tabPrinting) ToPDF(path string) error {
	return os.WriteFile(path, []byte((*Tab)(p).doc.text()+"\n"), 0644)
}

func (p *tabPrinting) ShowDialog() error { return browser.ErrUnsupported }

// tabAction implements browser.Action
type tabAction Tab

func (a *tabAction) ShowSource(highlight bool) error {
	t := (*Tab)(a)
	if t.url == nil {
		return fmt.Errorf("no page loaded")
	}
	_ = highlight // no highlighting backend
	src := *t.url
	src.Scheme = "view-source"
	t.win.Open(&src, false, true)
	return nil
}

func (a *tabAction) ExitFullscreen() error {
	return browser.ErrUnsupported
}

func (a *tabAction) Run(name string) error {
	switch name {
	case "SelectAll":
		a.caret.selecting = true
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", browser.ErrUnsupported, name)
	}
}

// tabScroller implements browser.Scroller over the document
type tabScroller Tab

func (s *tabScroller) Delta(dx, dy int) {
	s.doc.scrollTo(s.doc.scrollX+dx, s.doc.scrollY+dy)
}

func (s *tabScroller) DeltaPage(x, y float64) error {
	dy := int(y * viewportLines)
	dx := int(x * lineWidth)
	s.doc.scrollTo(s.doc.scrollX+dx, s.doc.scrollY+dy)
	return nil
}

func (s *tabScroller) Up(count int)    { s.Delta(0, -count) }
func (s *tabScroller) Down(count int)  { s.Delta(0, count) }
func (s *tabScroller) Left(count int)  { s.Delta(-count, 0) }
func (s *tabScroller) Right(count int) { s.Delta(count, 0) }
func (s *tabScroller) Top()            { s.doc.scrollTo(s.doc.scrollX, 0) }
func (s *tabScroller) Bottom()         { s.doc.scrollTo(s.doc.scrollX, s.doc.maxScrollY()) }

func (s *tabScroller) PageUp(count int)   { _ = s.DeltaPage(0, -float64(count)) }
func (s *tabScroller) PageDown(count int) { _ = s.DeltaPage(0, float64(count)) }

func (s *tabScroller) ToPerc(x, y *int) {
	nx, ny := s.doc.scrollX, s.doc.scrollY
	if x != nil {
		nx = s.doc.maxScrollX() * clamp(*x, 0, 100) / 100
	}
	if y != nil {
		ny = s.doc.maxScrollY() * clamp(*y, 0, 100) / 100
	}
	s.doc.scrollTo(nx, ny)
}

func (s *tabScroller) ToAnchor(name string) error {
	line, ok := s.doc.Anchors[name]
	if !ok {
		return fmt.Errorf("%w: %q", browser.ErrNoAnchor, name)
	}
	s.doc.scrollTo(s.doc.scrollX, line)
	return nil
}

func (s *tabScroller) Pos() domain.ScrollPos { return s.doc.pos() }

func (s *tabScroller) AtTop() bool    { return s.doc.scrollY == 0 }
func (s *tabScroller) AtBottom() bool { return s.doc.scrollY >= s.doc.maxScrollY() }

// pageTitle derives a title from a URL when the page has none
func pageTitle(u *url.URL) string {
	if u.Host != "" {
		return u.Host
	}
	return strings.TrimPrefix(u.String(), u.Scheme+"://")
}
