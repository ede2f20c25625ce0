package headless

import (
	"tabdeck/internal/browser"
)

// elementStore is a flat fake DOM: elements by id plus a focused one
type elementStore struct {
	byID    map[string]*Element
	focused string
}

func newElementStore() *elementStore {
	return &elementStore{byID: map[string]*Element{}}
}

// AddElement registers an element under the given id
func (s *elementStore) AddElement(id string, e *Element) {
	s.byID[id] = e
}

// Focus marks the element with the given id as focused
func (s *elementStore) Focus(id string) {
	s.focused = id
}

// FindFocused delivers the focused element, or nil
func (s *elementStore) FindFocused(cb func(browser.Element)) {
	e, ok := s.byID[s.focused]
	if !ok {
		cb(nil)
		return
	}
	cb(e)
}

// FindID delivers the element with the given id, or nil
func (s *elementStore) FindID(id string, cb func(browser.Element)) {
	e, ok := s.byID[id]
	if !ok {
		cb(nil)
		return
	}
	cb(e)
}

// Element is a headless DOM element
type Element struct {
	Editable bool
	Text     string
	Caret    int
	Clicked  int // number of times clicked
	Removed  bool

	// ClickFn, when set, handles clicks
	ClickFn func(target browser.ClickTarget) error
}

func (e *Element) IsEditable() bool { return e.Editable }

func (e *Element) Value() (string, error) {
	if e.Removed {
		return "", browser.ErrOrphaned
	}
	return e.Text, nil
}

func (e *Element) SetValue(text string) error {
	if e.Removed {
		return browser.ErrOrphaned
	}
	e.Text = text
	return nil
}

func (e *Element) InsertText(text string) error {
	if e.Removed {
		return browser.ErrOrphaned
	}
	if !e.Editable {
		return browser.ErrUnsupported
	}
	at := clamp(e.Caret, 0, len(e.Text))
	e.Text = e.Text[:at] + text + e.Text[at:]
	e.Caret = at + len(text)
	return nil
}

func (e *Element) Click(target browser.ClickTarget, forceEvent bool) error {
	if e.Removed {
		return browser.ErrOrphaned
	}
	_ = forceEvent
	e.Clicked++
	if e.ClickFn != nil {
		return e.ClickFn(target)
	}
	return nil
}

func (e *Element) CaretPosition() int { return e.Caret }
