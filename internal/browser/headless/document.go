// Package headless implements the browser interfaces without a rendering
// engine. Pages are plain-text documents with line-based scrolling, which
// is enough for the command layer, the shell and the tests to run against
// real tab and window state.
package headless

import (
	"strings"

	"tabdeck/internal/domain"
)

// viewportLines is the assumed viewport height for page-wise scrolling
const viewportLines = 25

// lineWidth is the assumed viewport width in columns
const lineWidth = 80

// Document is the text content of one page
type Document struct {
	Lines   []string
	Anchors map[string]int // anchor name -> line

	scrollX int
	scrollY int
}

// NewDocument creates a document from the given lines
func NewDocument(lines []string) *Document {
	return &Document{Lines: lines, Anchors: map[string]int{}}
}

func (d *Document) height() int {
	return len(d.Lines)
}

// maxScrollY is the largest valid vertical scroll offset
func (d *Document) maxScrollY() int {
	m := d.height() - viewportLines
	if m < 0 {
		return 0
	}
	return m
}

func (d *Document) maxScrollX() int {
	longest := 0
	for _, l := range d.Lines {
		if len(l) > longest {
			longest = len(l)
		}
	}
	m := longest - lineWidth
	if m < 0 {
		return 0
	}
	return m
}

func (d *Document) scrollTo(x, y int) {
	d.scrollX = clamp(x, 0, d.maxScrollX())
	d.scrollY = clamp(y, 0, d.maxScrollY())
}

func (d *Document) pos() domain.ScrollPos {
	return domain.ScrollPos{X: d.scrollX, Y: d.scrollY}
}

// text returns the whole document as one string
func (d *Document) text() string {
	return strings.Join(d.Lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
