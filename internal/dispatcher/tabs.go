package dispatcher

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"tabdeck/internal/browser"
	"tabdeck/internal/config"
	"tabdeck/internal/domain"
)

// CloseFlags select which neighbor becomes active after a close
type CloseFlags struct {
	Prev     bool
	Next     bool
	Opposite bool
	Force    bool
}

// selectionOverride computes the close-selection override from the
// prev/next/opposite flags. Opposite inverts the configured default,
// which is undefined for last-used.
func (d *Dispatcher) selectionOverride(prev, next, opposite bool) (browser.SelectBehavior, error) {
	set := 0
	for _, f := range []bool{prev, next, opposite} {
		if f {
			set++
		}
	}
	if set > 1 {
		return browser.SelectDefault, cmdErr(ErrUsage,
			"only one of --prev/--next/--opposite can be given")
	}
	switch {
	case prev:
		return browser.SelectPrevTab, nil
	case next:
		return browser.SelectNextTab, nil
	case opposite:
		switch d.cfg.Tabs.SelectOnRemove {
		case config.SelectPrev:
			return browser.SelectNextTab, nil
		case config.SelectNext:
			return browser.SelectPrevTab, nil
		default:
			return browser.SelectDefault, cmdErr(ErrUsage,
				"-o is not supported with 'tabs.select_on_remove' set to 'last-used'")
		}
	}
	return browser.SelectDefault, nil
}

// TabClose closes the tab addressed by count, or the current one
func (d *Dispatcher) TabClose(flags CloseFlags, count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	sel, err := d.selectionOverride(flags.Prev, flags.Next, flags.Opposite)
	if err != nil {
		return err
	}
	if t.Pinned() && !flags.Force {
		return cmdErr(ErrUsage, "tab is pinned, use --force to close it")
	}
	d.win.Close(t, browser.CloseOptions{AddUndo: true, Select: sel})
	return nil
}

// TabPin toggles the pinned state of the addressed tab
func (d *Dispatcher) TabPin(count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	d.win.SetTabPinned(t, !t.Pinned())
	return nil
}

// TabMute toggles audio mute on the addressed tab
func (d *Dispatcher) TabMute(count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	return wrapErr(t.Audio().ToggleMuted())
}

// TabOnly closes every tab except the current one. Pinned tabs survive
// unless force is given.
func (d *Dispatcher) TabOnly(prev, next, force bool) error {
	if prev && next {
		return cmdErr(ErrUsage, "only one of --prev/--next can be given")
	}
	if _, err := d.currentTab(); err != nil {
		return err
	}
	curIdx := d.win.CurrentIndex()

	var victims []browser.Tab
	for i := 0; i < d.win.Count(); i++ {
		if i == curIdx {
			continue
		}
		if prev && i > curIdx {
			continue
		}
		if next && i < curIdx {
			continue
		}
		t := d.win.TabAt(i)
		if t.Pinned() && !force {
			d.msg.Info(fmt.Sprintf("not closing pinned tab %d", i+1))
			continue
		}
		victims = append(victims, t)
	}
	for _, t := range victims {
		d.win.Close(t, browser.CloseOptions{AddUndo: true})
	}
	return nil
}

// Undo reopens the last closed tab
func (d *Dispatcher) Undo() error {
	return wrapErr(d.win.Undo())
}

// TabNext focuses the tab count positions to the right, wrapping when
// tabs.wrap is enabled
func (d *Dispatcher) TabNext(count int) error {
	return d.tabShift(repeat(count))
}

// TabPrev focuses the tab count positions to the left
func (d *Dispatcher) TabPrev(count int) error {
	return d.tabShift(-repeat(count))
}

func (d *Dispatcher) tabShift(delta int) error {
	n := d.win.Count()
	if n == 0 {
		// Nothing to switch between
		return nil
	}
	newIdx := d.win.CurrentIndex() + delta
	if newIdx < 0 || newIdx >= n {
		if !d.cfg.Tabs.Wrap {
			return nil
		}
		newIdx = ((newIdx % n) + n) % n
	}
	d.win.SetCurrentIndex(newIdx)
	return nil
}

// TabFocus focuses a tab by 1-based index. Negative indices count from
// the end, "last" focuses the previously focused tab, and no index
// behaves like TabNext.
func (d *Dispatcher) TabFocus(index string, count int) error {
	if index == "last" {
		last := d.win.LastFocused()
		if last == nil {
			return cmdErr(ErrNoSuchTab, "no last focused tab")
		}
		idx := d.win.IndexOf(last)
		if idx < 0 {
			return cmdErr(ErrNoSuchTab, "last focused tab is gone")
		}
		d.win.SetCurrentIndex(idx)
		return nil
	}

	target := count
	if index != "" {
		n, err := strconv.Atoi(index)
		if err != nil {
			return cmdErr(ErrUsage, "invalid index %q", index)
		}
		target = n
	}
	if target == 0 {
		return d.TabNext(count)
	}
	if target < 0 {
		target = d.win.Count() + target + 1
	}
	if target < 1 || target > d.win.Count() {
		return cmdErr(ErrNoSuchTab, "there's no tab with index %d", target)
	}
	d.win.SetCurrentIndex(target - 1)
	return nil
}

// TabMove moves the current tab. index is "+"/"-" for relative movement
// with wraparound, a 1-based absolute position, or empty for the first
// slot. count scales relative moves and overrides absolute positions.
func (d *Dispatcher) TabMove(index string, count int) error {
	if _, err := d.currentTab(); err != nil {
		return err
	}
	cur := d.win.CurrentIndex()
	n := d.win.Count()

	var newIdx int
	if index == "+" || index == "-" {
		delta := repeat(count)
		if index == "-" {
			delta = -delta
		}
		newIdx = ((cur+delta)%n + n) % n
	} else {
		// Absolute. Precedence: count, then index, then first slot.
		pos := 1
		if index != "" {
			p, err := strconv.Atoi(index)
			if err != nil {
				return cmdErr(ErrUsage, "invalid index %q", index)
			}
			pos = p
		}
		if count != 0 {
			pos = count
		}
		if pos < 0 {
			pos = n + pos + 1
		}
		if pos < 1 || pos > n {
			return cmdErr(ErrUsage, "can't move tab to position %d", pos)
		}
		newIdx = pos - 1
	}

	d.win.Move(cur, newIdx)
	return nil
}

// TabClone duplicates the current tab with its history, title, pinned
// state and zoom level
func (d *Dispatcher) TabClone(bg, window bool) error {
	_, err := d.cloneTab(bg, window)
	return err
}

// cloneTab duplicates the current tab and returns the clone
func (d *Dispatcher) cloneTab(bg, window bool) (browser.Tab, error) {
	if bg && window {
		return nil, cmdErr(ErrUsage, "only one of -b/-w can be given")
	}
	t, err := d.currentTab()
	if err != nil {
		return nil, err
	}

	var target browser.Container
	if window {
		target = d.registry.NewWindow(d.win.Private())
	} else {
		target = d.win
	}

	clone := target.Open(nil, bg, !window)
	entries, err := t.History().Serialize()
	if err != nil {
		return nil, wrapErr(err)
	}
	if err := clone.History().Deserialize(entries); err != nil {
		return nil, wrapErr(err)
	}
	clone.SetPinned(t.Pinned())
	_ = clone.Zoom().SetFactor(t.Zoom().Factor())
	idx := target.IndexOf(clone)
	if idx >= 0 {
		target.SetPageTitle(idx, t.Title())
	}
	return clone, nil
}

// bufferTarget is a resolved cross-window tab reference
type bufferTarget struct {
	win browser.Container
	idx int
}

// resolveBufferIndex resolves "[window/]index" or a fuzzy match over
// titles and URLs of every tab in every window
func (d *Dispatcher) resolveBufferIndex(index string) (bufferTarget, error) {
	parts := strings.Split(index, "/")
	ints := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			ints = nil
			break
		}
		ints = append(ints, n)
	}

	var winID, idx int
	switch {
	case len(ints) == 1:
		winID = d.winID
		idx = ints[0]
	case len(ints) == 2:
		winID = ints[0]
		idx = ints[1]
	default:
		return d.fuzzyBuffer(index)
	}

	w := d.registry.Window(winID)
	if w == nil {
		return bufferTarget{}, cmdErr(ErrNoSuchTab, "there's no window with id %d", winID)
	}
	if idx < 1 || idx > w.Count() {
		return bufferTarget{}, cmdErr(ErrNoSuchTab,
			"there's no tab with index %d in window %d", idx, winID)
	}
	return bufferTarget{win: w, idx: idx - 1}, nil
}

// fuzzyBuffer ranks tabs whose "title url" contains the input as a
// substring, closest by edit distance first
func (d *Dispatcher) fuzzyBuffer(input string) (bufferTarget, error) {
	needle := strings.ToLower(input)

	type candidate struct {
		info domain.TabInfo
		dist int
	}
	var matches []candidate
	for _, info := range d.registry.Tabs() {
		hay := strings.ToLower(info.Title + " " + info.URL)
		if !strings.Contains(hay, needle) {
			continue
		}
		matches = append(matches, candidate{
			info: info,
			dist: levenshtein.ComputeDistance(needle, hay),
		})
	}
	if len(matches) == 0 {
		return bufferTarget{}, cmdErr(ErrNoSuchTab, "no matching tab for: %s", input)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})
	best := matches[0].info
	return bufferTarget{win: d.registry.Window(best.WindowID), idx: best.Index}, nil
}

// Buffer focuses a tab anywhere: by "[window/]index", by fuzzy match,
// or by count. Without arguments it opens the tab overview page.
func (d *Dispatcher) Buffer(index string, count int) error {
	if index == "" && count == 0 {
		u, _ := url.Parse("tabdeck://tabs")
		return d.open(u, true, false, false, false, false)
	}
	if count != 0 {
		index = strconv.Itoa(count)
	}

	target, err := d.resolveBufferIndex(index)
	if err != nil {
		return err
	}
	if target.win.WindowID() != d.winID {
		d.registry.Raise(target.win.WindowID())
	}
	target.win.SetCurrentIndex(target.idx)
	return nil
}

// TabTake moves a tab from another window into this one
func (d *Dispatcher) TabTake(index string, keepFocus bool) error {
	target, err := d.resolveBufferIndex(index)
	if err != nil {
		return err
	}
	if target.win.WindowID() == d.winID {
		return cmdErr(ErrUsage, "can't take a tab from the same window")
	}
	return d.moveTabAcross(target.win, target.idx, d.win, keepFocus)
}

// TabGive moves the addressed tab of this window to another window, or
// to a fresh one when no id is given
func (d *Dispatcher) TabGive(winID string, keepFocus, private bool, count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}

	var dest browser.Container
	if winID == "" {
		if d.win.Count() < 2 {
			return cmdErr(ErrUsage, "can't detach from a window with only one tab")
		}
		dest = d.registry.NewWindow(private)
	} else {
		id, err := strconv.Atoi(winID)
		if err != nil {
			return cmdErr(ErrUsage, "invalid window id %q", winID)
		}
		if id == d.winID {
			return cmdErr(ErrUsage, "can't give a tab to the same window")
		}
		dest = d.registry.Window(id)
		if dest == nil {
			return cmdErr(ErrNoSuchTab, "there's no window with id %d", id)
		}
		if private && !dest.Private() {
			return cmdErr(ErrUsage, "the window with id %d is not private", id)
		}
	}
	return d.moveTabAcross(d.win, d.win.IndexOf(t), dest, keepFocus)
}

// moveTabAcross re-creates a tab in another window with its full state
// and closes the original
func (d *Dispatcher) moveTabAcross(from browser.Container, idx int, to browser.Container, keepFocus bool) error {
	t := from.TabAt(idx)
	if t == nil {
		return cmdErr(ErrNoSuchTab, "no tab with index %d", idx+1)
	}

	moved := to.Open(nil, keepFocus, false)
	entries, err := t.History().Serialize()
	if err != nil {
		return wrapErr(err)
	}
	if err := moved.History().Deserialize(entries); err != nil {
		return wrapErr(err)
	}
	moved.SetPinned(t.Pinned())
	_ = moved.Zoom().SetFactor(t.Zoom().Factor())

	from.Close(t, browser.CloseOptions{AddUndo: false})
	return nil
}
