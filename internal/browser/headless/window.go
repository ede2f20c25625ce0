package headless

import (
	"fmt"
	"net/url"
	"unicode"

	"tabdeck/internal/browser"
	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
)

type localMark struct {
	tab *Tab
	pos domain.ScrollPos
}

type closedTab struct {
	index   int
	history []browser.HistoryEntry
	pinned  bool
	title   string
}

// Window is the headless browser.Container implementation
type Window struct {
	reg     *Registry
	id      int
	private bool

	tabs        []*Tab
	current     int
	lastFocused *Tab

	undoStack []closedTab

	searchText string
	searchOpts browser.SearchOptions
	searchSet  bool

	localMarks map[rune]localMark
	fullscreen bool
}

func (w *Window) WindowID() int { return w.id }
func (w *Window) Private() bool { return w.private }
func (w *Window) Count() int    { return len(w.tabs) }

func (w *Window) CurrentIndex() int {
	if len(w.tabs) == 0 {
		return -1
	}
	return w.current
}

// SetCurrentIndex focuses the tab at idx. Out-of-range indices are
// ignored, matching toolkit behavior.
func (w *Window) SetCurrentIndex(idx int) {
	if idx < 0 || idx >= len(w.tabs) {
		return
	}
	old := w.current
	if old != idx && old >= 0 && old < len(w.tabs) {
		w.lastFocused = w.tabs[old]
	}
	w.current = idx
	if w.bus() != nil && old != idx {
		w.bus().Publish(eventbus.CurrentTabChangedEvent{
			WindowID: w.id, OldIndex: old, NewIndex: idx,
		})
	}
}

func (w *Window) Current() browser.Tab {
	if len(w.tabs) == 0 {
		return nil
	}
	return w.tabs[w.current]
}

func (w *Window) TabAt(idx int) browser.Tab {
	if idx < 0 || idx >= len(w.tabs) {
		return nil
	}
	return w.tabs[idx]
}

func (w *Window) IndexOf(t browser.Tab) int {
	for i, tab := range w.tabs {
		if browser.Tab(tab) == t {
			return i
		}
	}
	return -1
}

func (w *Window) PageTitle(idx int) string {
	if idx < 0 || idx >= len(w.tabs) {
		return ""
	}
	return w.tabs[idx].title
}

func (w *Window) SetPageTitle(idx int, title string) {
	if idx < 0 || idx >= len(w.tabs) {
		return
	}
	w.tabs[idx].title = title
}

// Open opens a new tab. A related tab is inserted right after the
// current one, an unrelated one is appended.
func (w *Window) Open(u *url.URL, background, related bool) browser.Tab {
	t := newTab(w)

	pos := len(w.tabs)
	if related && len(w.tabs) > 0 {
		pos = w.current + 1
	}
	w.tabs = append(w.tabs, nil)
	copy(w.tabs[pos+1:], w.tabs[pos:])
	w.tabs[pos] = t
	if pos <= w.current && len(w.tabs) > 1 {
		w.current++
	}

	if u != nil {
		t.Load(u)
	}

	if !background {
		w.SetCurrentIndex(pos)
	}

	if w.bus() != nil {
		urlStr := ""
		if u != nil {
			urlStr = u.String()
		}
		w.bus().Publish(eventbus.TabOpenedEvent{
			WindowID: w.id, Index: pos, URL: urlStr, Background: background,
		})
	}
	return t
}

// Close removes the tab and selects a neighbor per the close options or
// the configured default
func (w *Window) Close(t browser.Tab, opts browser.CloseOptions) {
	idx := w.IndexOf(t)
	if idx < 0 {
		return
	}
	ht := w.tabs[idx]

	if opts.AddUndo {
		entries, _ := ht.History().Serialize()
		w.undoStack = append(w.undoStack, closedTab{
			index:   idx,
			history: entries,
			pinned:  ht.pinned,
			title:   ht.title,
		})
	}

	urlStr := ""
	if ht.url != nil {
		urlStr = ht.url.String()
	}

	wasCurrent := idx == w.current
	w.tabs = append(w.tabs[:idx], w.tabs[idx+1:]...)
	if w.lastFocused == ht {
		w.lastFocused = nil
	}

	if len(w.tabs) == 0 {
		w.current = 0
	} else if wasCurrent {
		w.current = w.selectAfterClose(idx, opts.Select)
	} else if idx < w.current {
		w.current--
	}

	if w.bus() != nil {
		w.bus().Publish(eventbus.TabClosedEvent{
			WindowID: w.id, Index: idx, URL: urlStr,
		})
	}
}

// selectAfterClose resolves the index that becomes current after the
// tab at idx was removed
func (w *Window) selectAfterClose(idx int, override browser.SelectBehavior) int {
	behavior := override
	if behavior == browser.SelectDefault {
		switch w.reg.cfg.Tabs.SelectOnRemove {
		case "prev":
			behavior = browser.SelectPrevTab
		case "last-used":
			if w.lastFocused != nil {
				if li := w.IndexOf(w.lastFocused); li >= 0 {
					return li
				}
			}
			behavior = browser.SelectNextTab
		default:
			behavior = browser.SelectNextTab
		}
	}
	if behavior == browser.SelectPrevTab {
		return clamp(idx-1, 0, len(w.tabs)-1)
	}
	// The tab after the closed one now sits at idx
	return clamp(idx, 0, len(w.tabs)-1)
}

// Undo reopens the most recently closed tab
func (w *Window) Undo() error {
	if len(w.undoStack) == 0 {
		return browser.ErrNothingToUndo
	}
	entry := w.undoStack[len(w.undoStack)-1]
	w.undoStack = w.undoStack[:len(w.undoStack)-1]

	t := newTab(w)
	pos := clamp(entry.index, 0, len(w.tabs))
	w.tabs = append(w.tabs, nil)
	copy(w.tabs[pos+1:], w.tabs[pos:])
	w.tabs[pos] = t

	_ = t.History().Deserialize(entry.history)
	t.pinned = entry.pinned
	if entry.title != "" {
		t.title = entry.title
	}
	w.SetCurrentIndex(pos)
	return nil
}

// Move moves a tab between positions, keeping focus on it
func (w *Window) Move(from, to int) {
	if from < 0 || from >= len(w.tabs) || to < 0 || to >= len(w.tabs) || from == to {
		return
	}
	t := w.tabs[from]
	w.tabs = append(w.tabs[:from], w.tabs[from+1:]...)
	w.tabs = append(w.tabs[:to], append([]*Tab{t}, w.tabs[to:]...)...)

	switch {
	case w.current == from:
		w.current = to
	case from < w.current && to >= w.current:
		w.current--
	case from > w.current && to <= w.current:
		w.current++
	}

	if w.bus() != nil {
		w.bus().Publish(eventbus.TabMovedEvent{
			WindowID: w.id, FromIndex: from, ToIndex: to,
		})
	}
}

func (w *Window) SetTabPinned(t browser.Tab, pinned bool) {
	t.SetPinned(pinned)
}

func (w *Window) LastFocused() browser.Tab {
	if w.lastFocused == nil {
		return nil
	}
	return w.lastFocused
}

func (w *Window) SetSearchState(text string, opts browser.SearchOptions) {
	w.searchText = text
	w.searchOpts = opts
	w.searchSet = true
}

func (w *Window) SearchState() (string, browser.SearchOptions, bool) {
	return w.searchText, w.searchOpts, w.searchSet
}

// SetMark stores the current scroll position under key. A capital key
// stores a global mark reachable from any window.
func (w *Window) SetMark(key rune) error {
	cur := w.Current()
	if cur == nil {
		return fmt.Errorf("no tab to set a mark in")
	}
	pos := cur.Scroller().Pos()

	if unicode.IsUpper(key) {
		w.reg.globalMarks[key] = globalMark{
			winID: w.id, tab: cur.(*Tab), pos: pos,
		}
	} else {
		w.localMarks[key] = localMark{tab: cur.(*Tab), pos: pos}
	}
	if w.bus() != nil {
		w.bus().Publish(eventbus.MarkSetEvent{
			WindowID: w.id, Key: key, Global: unicode.IsUpper(key),
		})
	}
	return nil
}

// JumpMark scrolls to the mark stored under key. The position before
// the jump is saved under ' so two jumps toggle.
func (w *Window) JumpMark(key rune) error {
	if unicode.IsUpper(key) {
		m, ok := w.reg.globalMarks[key]
		if !ok {
			return fmt.Errorf("%w: %q", browser.ErrNoMark, key)
		}
		target, ok := w.reg.windows[m.winID]
		if !ok || target.IndexOf(m.tab) < 0 {
			delete(w.reg.globalMarks, key)
			return fmt.Errorf("%w: tab for mark %q is gone", browser.ErrOrphaned, key)
		}
		_ = w.SetMark('\'')
		w.reg.Raise(m.winID)
		target.SetCurrentIndex(target.IndexOf(m.tab))
		m.tab.doc.scrollTo(m.pos.X, m.pos.Y)
		return nil
	}

	m, ok := w.localMarks[key]
	if !ok {
		return fmt.Errorf("%w: %q", browser.ErrNoMark, key)
	}
	if w.IndexOf(m.tab) < 0 {
		delete(w.localMarks, key)
		return fmt.Errorf("%w: tab for mark %q is gone", browser.ErrOrphaned, key)
	}
	_ = w.SetMark('\'')
	w.SetCurrentIndex(w.IndexOf(m.tab))
	m.tab.doc.scrollTo(m.pos.X, m.pos.Y)
	return nil
}

// Fullscreen toggles the window's fullscreen state
func (w *Window) Fullscreen() error {
	w.fullscreen = !w.fullscreen
	return nil
}

// IsFullscreen reports the window's fullscreen state
func (w *Window) IsFullscreen() bool { return w.fullscreen }

func (w *Window) bus() eventbus.EventBus { return w.reg.bus }

// urlChanged publishes a URL change for the current tab
func (w *Window) urlChanged(t *Tab) {
	if w.bus() == nil || w.Current() != browser.Tab(t) || t.url == nil {
		return
	}
	w.bus().Publish(eventbus.URLChangedEvent{
		WindowID: w.id, URL: t.url.String(),
	})
}
