package headless

import (
	"net/url"
	"strings"
	"unicode"

	"tabdeck/internal/browser"
)

type caretState struct {
	line      int
	col       int
	selecting bool
	selLine   int
	selCol    int
}

// tabCaret implements browser.Caret with a line/column cursor over the
// document
type tabCaret Tab

func (c *tabCaret) lineLen(line int) int {
	if line < 0 || line >= len(c.doc.Lines) {
		return 0
	}
	return len(c.doc.Lines[line])
}

func (c *tabCaret) clampPos() {
	if len(c.doc.Lines) == 0 {
		c.caret.line, c.caret.col = 0, 0
		return
	}
	c.caret.line = clamp(c.caret.line, 0, len(c.doc.Lines)-1)
	c.caret.col = clamp(c.caret.col, 0, c.lineLen(c.caret.line))
}

func (c *tabCaret) MoveToNextLine(count int) {
	c.caret.line += count
	c.clampPos()
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) MoveToPrevLine(count int) {
	c.caret.line -= count
	c.clampPos()
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) MoveToNextChar(count int) {
	c.caret.col += count
	c.clampPos()
}

func (c *tabCaret) MoveToPrevChar(count int) {
	c.caret.col -= count
	c.clampPos()
}

func (c *tabCaret) MoveToNextWord(count int) {
	for i := 0; i < count; i++ {
		c.moveWord(true, false)
	}
}

func (c *tabCaret) MoveToPrevWord(count int) {
	for i := 0; i < count; i++ {
		c.moveWord(false, false)
	}
}

func (c *tabCaret) MoveToEndOfWord(count int) {
	for i := 0; i < count; i++ {
		c.moveWord(true, true)
	}
}

// moveWord advances the caret to the next/previous word boundary on the
// current line, moving across lines at the edges
func (c *tabCaret) moveWord(forward, toEnd bool) {
	line := c.currentLine()
	col := c.caret.col
	if forward {
		// Skip the current word, then following spaces
		for col < len(line) && !unicode.IsSpace(rune(line[col])) {
			col++
		}
		if !toEnd {
			for col < len(line) && unicode.IsSpace(rune(line[col])) {
				col++
			}
		}
		if col >= len(line) && c.caret.line < len(c.doc.Lines)-1 {
			c.caret.line++
			c.caret.col = 0
			return
		}
	} else {
		for col > 0 && unicode.IsSpace(rune(line[col-1])) {
			col--
		}
		for col > 0 && !unicode.IsSpace(rune(line[col-1])) {
			col--
		}
		if col == 0 && c.caret.col == 0 && c.caret.line > 0 {
			c.caret.line--
			c.caret.col = c.lineLen(c.caret.line)
			return
		}
	}
	c.caret.col = col
	c.clampPos()
}

func (c *tabCaret) currentLine() string {
	if c.caret.line < 0 || c.caret.line >= len(c.doc.Lines) {
		return ""
	}
	return c.doc.Lines[c.caret.line]
}

func (c *tabCaret) MoveToStartOfLine() { c.caret.col = 0 }

func (c *tabCaret) MoveToEndOfLine() {
	c.caret.col = c.lineLen(c.caret.line)
}

// Blocks are paragraphs separated by blank lines
func (c *tabCaret) MoveToStartOfNextBlock(count int) {
	for i := 0; i < count; i++ {
		c.caret.line = c.nextBlankFrom(c.caret.line) + 1
		c.clampPos()
	}
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) MoveToStartOfPrevBlock(count int) {
	for i := 0; i < count; i++ {
		blank := c.prevBlankFrom(c.caret.line)
		c.caret.line = blank
		if blank > 0 {
			c.caret.line = c.prevBlankFrom(blank) + 1
		} else {
			c.caret.line = 0
		}
		c.clampPos()
	}
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) MoveToEndOfNextBlock(count int) {
	for i := 0; i < count; i++ {
		next := c.nextBlankFrom(c.caret.line + 1)
		c.caret.line = next - 1
		c.clampPos()
	}
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) MoveToEndOfPrevBlock(count int) {
	for i := 0; i < count; i++ {
		c.caret.line = c.prevBlankFrom(c.caret.line) - 1
		c.clampPos()
	}
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

func (c *tabCaret) nextBlankFrom(line int) int {
	for i := clamp(line, 0, len(c.doc.Lines)); i < len(c.doc.Lines); i++ {
		if strings.TrimSpace(c.doc.Lines[i]) == "" {
			return i
		}
	}
	return len(c.doc.Lines)
}

func (c *tabCaret) prevBlankFrom(line int) int {
	for i := clamp(line-1, 0, len(c.doc.Lines)-1); i >= 0; i-- {
		if strings.TrimSpace(c.doc.Lines[i]) == "" {
			return i
		}
	}
	return 0
}

func (c *tabCaret) MoveToStartOfDocument() {
	c.caret.line, c.caret.col = 0, 0
	c.doc.scrollTo(c.doc.scrollX, 0)
}

func (c *tabCaret) MoveToEndOfDocument() {
	c.caret.line = len(c.doc.Lines) - 1
	c.clampPos()
	c.doc.scrollTo(c.doc.scrollX, c.caret.line)
}

// ToggleSelection starts or stops extending a selection from the caret
func (c *tabCaret) ToggleSelection() {
	if c.caret.selecting {
		c.caret.selecting = false
		return
	}
	c.caret.selecting = true
	c.caret.selLine = c.caret.line
	c.caret.selCol = c.caret.col
}

// DropSelection collapses the selection but stays in selection mode
func (c *tabCaret) DropSelection() {
	c.caret.selLine = c.caret.line
	c.caret.selCol = c.caret.col
}

// Selection delivers the selected text, "" when nothing is selected
func (c *tabCaret) Selection(cb func(text string)) {
	cb(c.selectedText())
}

func (c *tabCaret) selectedText() string {
	if !c.caret.selecting {
		return ""
	}
	sl, sc := c.caret.selLine, c.caret.selCol
	el, ec := c.caret.line, c.caret.col
	if sl > el || (sl == el && sc > ec) {
		sl, sc, el, ec = el, ec, sl, sc
	}
	if sl == el {
		line := c.doc.Lines[clamp(sl, 0, len(c.doc.Lines)-1)]
		return line[clamp(sc, 0, len(line)):clamp(ec, 0, len(line))]
	}
	var parts []string
	for i := sl; i <= el && i < len(c.doc.Lines); i++ {
		line := c.doc.Lines[i]
		switch i {
		case sl:
			parts = append(parts, line[clamp(sc, 0, len(line)):])
		case el:
			parts = append(parts, line[:clamp(ec, 0, len(line))])
		default:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// FollowSelected treats the selected text as a link target
func (c *tabCaret) FollowSelected(tab bool) error {
	sel := strings.TrimSpace(c.selectedText())
	if sel == "" {
		return browser.ErrNoSelection
	}
	u, err := url.Parse(sel)
	if err != nil || u.Scheme == "" {
		u, err = url.Parse("http://" + sel)
		if err != nil {
			return browser.ErrUnsupported
		}
	}
	t := (*Tab)(c)
	if tab {
		t.win.Open(u, false, true)
	} else {
		t.Load(u)
	}
	return nil
}
