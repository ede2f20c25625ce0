package headless

import (
	"strings"

	"tabdeck/internal/browser"
)

type searchState struct {
	text      string
	opts      browser.SearchOptions
	matches   []int // line numbers, ascending
	current   int   // index into matches, -1 before the first step
	displayed bool
}

// tabSearch implements browser.Search by matching document lines
type tabSearch Tab

func (s *tabSearch) Search(text string, opts browser.SearchOptions, cb func(found bool)) {
	t := (*Tab)(s)
	st := searchState{text: text, opts: opts, current: -1, displayed: true}

	needle := text
	for i, line := range t.doc.Lines {
		hay := line
		if opts.IgnoreCase {
			hay = strings.ToLower(hay)
			needle = strings.ToLower(text)
		}
		if strings.Contains(hay, needle) {
			st.matches = append(st.matches, i)
		}
	}
	t.search = st

	if len(st.matches) == 0 {
		if cb != nil {
			cb(false)
		}
		return
	}

	// Jump to the first match in search direction from the current
	// scroll position
	if opts.Reverse {
		s.stepTo(s.prevFrom(t.doc.scrollY), cb)
	} else {
		s.stepTo(s.nextFrom(t.doc.scrollY), cb)
	}
}

// nextFrom returns the index of the first match at or after line,
// wrapping to the first match
func (s *tabSearch) nextFrom(line int) int {
	for i, m := range s.search.matches {
		if m >= line {
			return i
		}
	}
	return 0
}

// prevFrom returns the index of the last match at or before line,
// wrapping to the last match
func (s *tabSearch) prevFrom(line int) int {
	for i := len(s.search.matches) - 1; i >= 0; i-- {
		if s.search.matches[i] <= line {
			return i
		}
	}
	return len(s.search.matches) - 1
}

func (s *tabSearch) stepTo(idx int, cb func(found bool)) {
	t := (*Tab)(s)
	t.search.current = idx
	t.doc.scrollTo(t.doc.scrollX, t.search.matches[idx])
	if cb != nil {
		cb(true)
	}
}

// NextResult moves one match forward in the search direction
func (s *tabSearch) NextResult(cb func(found bool)) {
	s.step(1, cb)
}

// PrevResult moves one match against the search direction
func (s *tabSearch) PrevResult(cb func(found bool)) {
	s.step(-1, cb)
}

func (s *tabSearch) step(dir int, cb func(found bool)) {
	st := &s.search
	if len(st.matches) == 0 {
		if cb != nil {
			cb(false)
		}
		return
	}
	if st.opts.Reverse {
		dir = -dir
	}
	n := len(st.matches)
	idx := ((st.current+dir)%n + n) % n
	s.stepTo(idx, cb)
}

// Clear drops the current search
func (s *tabSearch) Clear() {
	s.search = searchState{}
}

func (s *tabSearch) Displayed() bool { return s.search.displayed }
func (s *tabSearch) Text() string    { return s.search.text }
