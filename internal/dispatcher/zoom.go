package dispatcher

import (
	"fmt"
	"strconv"
	"strings"
)

// ZoomIn zooms the current page in by count ladder steps
func (d *Dispatcher) ZoomIn(count int) error {
	return d.zoomStep(repeat(count))
}

// ZoomOut zooms the current page out by count ladder steps
func (d *Dispatcher) ZoomOut(count int) error {
	return d.zoomStep(-repeat(count))
}

func (d *Dispatcher) zoomStep(steps int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	level, err := t.Zoom().Offset(steps)
	if err != nil {
		return wrapErr(err)
	}
	d.msg.Info(fmt.Sprintf("Zoom level: %d%%", level))
	return nil
}

// Zoom sets an absolute zoom level in percent. count overrides level;
// with neither the configured default is restored. A trailing % on the
// level is tolerated.
func (d *Dispatcher) Zoom(level string, count int) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	target := d.cfg.Zoom.Default
	switch {
	case count != 0:
		target = count
	case level != "":
		p, err := strconv.Atoi(strings.TrimSuffix(level, "%"))
		if err != nil {
			return cmdErr(ErrUsage, "invalid zoom level %q", level)
		}
		target = p
	}

	if err := t.Zoom().SetFactor(float64(target) / 100); err != nil {
		return cmdErr(ErrUsage, "can't zoom to %d%%: %v", target, err)
	}
	d.msg.Info(fmt.Sprintf("Zoom level: %d%%", target))
	return nil
}
