package dispatcher

import (
	"strconv"
	"strings"
)

// Scroll scrolls the current page in a named direction. count repeats
// step-wise directions and multiplies page-wise ones.
func (d *Dispatcher) Scroll(direction string, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	s := t.Scroller()
	c := repeat(count)

	switch direction {
	case "up":
		s.Up(c)
	case "down":
		s.Down(c)
	case "left":
		s.Left(c)
	case "right":
		s.Right(c)
	case "top":
		s.Top()
	case "bottom":
		s.Bottom()
	case "page-up":
		s.PageUp(c)
	case "page-down":
		s.PageDown(c)
	default:
		return cmdErr(ErrUsage,
			"invalid value %q for direction, expected one of: up/down/left/right/top/bottom/page-up/page-down",
			direction)
	}
	return nil
}

// ScrollPx scrolls by a pixel delta, multiplied by count
func (d *Dispatcher) ScrollPx(dx, dy, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	c := repeat(count)
	t.Scroller().Delta(dx*c, dy*c)
	return nil
}

// ScrollToPerc scrolls to a percentage of the page. count overrides
// perc; with neither the page scrolls to the end.
func (d *Dispatcher) ScrollToPerc(perc string, horizontal bool, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	target := 100
	switch {
	case count != 0:
		target = count
	case perc != "":
		p, err := strconv.Atoi(strings.TrimSuffix(perc, "%"))
		if err != nil {
			return cmdErr(ErrUsage, "invalid percentage %q", perc)
		}
		target = p
	}

	d.saveJumpMark()
	if horizontal {
		t.Scroller().ToPerc(&target, nil)
	} else {
		t.Scroller().ToPerc(nil, &target)
	}
	return nil
}

// ScrollToAnchor scrolls to a named anchor on the page
func (d *Dispatcher) ScrollToAnchor(name string) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	d.saveJumpMark()
	return wrapErr(t.Scroller().ToAnchor(name))
}

// ScrollPage scrolls by a page multiple. When the page can scroll no
// further, topNavigate/bottomNavigate chain into a navigate command at
// the respective edge.
func (d *Dispatcher) ScrollPage(x, y float64, topNavigate, bottomNavigate string, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	c := repeat(count)

	if bottomNavigate != "" && y > 0 && t.Scroller().AtBottom() {
		if bottomNavigate != "next" && bottomNavigate != "increment" {
			return cmdErr(ErrUsage,
				"invalid value %q for bottom_navigate, expected next or increment", bottomNavigate)
		}
		return d.Navigate(bottomNavigate, false, false, false, 0)
	}
	if topNavigate != "" && y < 0 && t.Scroller().AtTop() {
		if topNavigate != "prev" && topNavigate != "decrement" {
			return cmdErr(ErrUsage,
				"invalid value %q for top_navigate, expected prev or decrement", topNavigate)
		}
		return d.Navigate(topNavigate, false, false, false, 0)
	}

	return wrapErr(t.Scroller().DeltaPage(x*float64(c), y*float64(c)))
}
