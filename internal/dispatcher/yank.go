package dispatcher

import (
	"fmt"

	"github.com/atotto/clipboard"

	"tabdeck/internal/urlutil"
)

// Clipboard abstracts the system clipboard and primary selection
type Clipboard interface {
	Set(text string, primary bool) error
	Get(primary bool) (string, error)
}

// SystemClipboard uses the OS clipboard. The primary selection is not
// supported by the clipboard library, so primary falls back to the
// regular clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Set(text string, primary bool) error {
	_ = primary
	return clipboard.WriteAll(text)
}

func (SystemClipboard) Get(primary bool) (string, error) {
	_ = primary
	return clipboard.ReadAll()
}

// Yank copies an aspect of the current page to the clipboard. what is
// one of url, pretty-url, title, domain or selection.
func (d *Dispatcher) Yank(what string, sel, keep bool) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	if what == "selection" {
		t.Caret().Selection(func(text string) {
			if text == "" {
				d.msg.Info("Nothing to yank")
				return
			}
			d.yankText(text, "selection", sel)
			if !keep {
				t.Caret().DropSelection()
			}
		})
		return nil
	}

	var text, label string
	switch what {
	case "url", "pretty-url":
		u, err := t.URL()
		if err != nil {
			return wrapErr(err)
		}
		text = urlutil.YankURL(u, what == "pretty-url", d.cfg.URL.YankIgnoredParameters)
		label = "URL"
	case "title":
		text = t.Title()
		label = "title"
	case "domain":
		u, err := t.URL()
		if err != nil {
			return wrapErr(err)
		}
		text = urlutil.Domain(u)
		label = "domain"
	default:
		return cmdErr(ErrUsage,
			"invalid value %q for what, expected url/pretty-url/title/domain/selection", what)
	}

	if text == "" {
		d.msg.Info("Nothing to yank")
		return nil
	}
	d.yankText(text, label, sel)
	return nil
}

func (d *Dispatcher) yankText(text, label string, primary bool) {
	if err := d.clip.Set(text, primary); err != nil {
		d.msg.Error(fmt.Sprintf("failed to yank %s: %v", label, err))
		return
	}
	target := "clipboard"
	if primary {
		target = "primary selection"
	}
	d.msg.Info(fmt.Sprintf("Yanked %s to %s: %s", label, target, text))
}
