package dispatcher

import (
	"fmt"

	"tabdeck/internal/browser"
	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
)

// Search starts a page search. An empty text clears a displayed search.
// The direction of later continuations is stored with the window.
func (d *Dispatcher) Search(text string, reverse bool) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	if text == "" && t.Search().Displayed() {
		t.Search().Clear()
		return nil
	}

	opts := browser.SearchOptions{
		IgnoreCase: d.cfg.Search.IgnoreCase,
		Reverse:    reverse,
	}
	d.win.SetSearchState(text, opts)
	d.saveJumpMark()

	before := t.Scroller().Pos()
	t.Search().Search(text, opts, func(found bool) {
		d.searchCallback(t, text, found, before, reverse)
	})
	return nil
}

// searchCallback reports "not found" and wraparound after a search step
// by comparing the scroll position before and after
func (d *Dispatcher) searchCallback(t browser.Tab, text string, found bool, before domain.ScrollPos, goingUp bool) {
	if !found {
		d.msg.Warning(fmt.Sprintf("Text '%s' not found on page!", text))
		return
	}
	after := t.Scroller().Pos()
	if goingUp && after.Y > before.Y {
		d.msg.Info("Search hit TOP, continuing at BOTTOM")
		d.publishWrap(false)
	} else if !goingUp && after.Y < before.Y {
		d.msg.Info("Search hit BOTTOM, continuing at TOP")
		d.publishWrap(true)
	}
}

func (d *Dispatcher) publishWrap(atBottom bool) {
	if d.bus != nil {
		d.bus.Publish(eventbus.SearchWrappedEvent{
			WindowID: d.winID, AtBottom: atBottom,
		})
	}
}

// SearchNext continues the last search in its own direction
func (d *Dispatcher) SearchNext(count int) error {
	return d.searchContinue(false, repeat(count))
}

// SearchPrev continues the last search against its direction
func (d *Dispatcher) SearchPrev(count int) error {
	return d.searchContinue(true, repeat(count))
}

func (d *Dispatcher) searchContinue(prev bool, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	text, opts, ok := d.win.SearchState()
	if !ok {
		return cmdErr(ErrNoSearch, "no search done yet")
	}

	d.saveJumpMark()

	// Effective direction is the stored direction flipped by prev
	goingUp := opts.Reverse != prev

	// A changed term re-issues the search, consuming one step
	if t.Search().Text() != text {
		before := t.Scroller().Pos()
		t.Search().Search(text, opts, func(found bool) {
			d.searchCallback(t, text, found, before, opts.Reverse)
		})
		count--
	}

	for i := 0; i < count; i++ {
		before := t.Scroller().Pos()
		cb := func(found bool) {
			d.searchCallback(t, text, found, before, goingUp)
		}
		if prev {
			t.Search().PrevResult(cb)
		} else {
			t.Search().NextResult(cb)
		}
	}
	return nil
}
