package dispatcher

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"tabdeck/internal/browser"
	"tabdeck/internal/extproc"
	"tabdeck/internal/urlutil"
)

// SpawnFlags control how an external command runs
type SpawnFlags struct {
	Userscript bool
	Verbose    bool
	Output     bool
	Detach     bool
}

// Spawn runs an external command. {url} in the command line is replaced
// with the current URL. Userscripts additionally receive the page state
// in their environment.
func (d *Dispatcher) Spawn(cmdline string, flags SpawnFlags, count int) error {
	if flags.Userscript && flags.Detach {
		return cmdErr(ErrUsage, "only one of --userscript/--detach can be given")
	}
	if cmdline == "" {
		return cmdErr(ErrUsage, "no command given")
	}

	if strings.Contains(cmdline, "{url}") {
		t, err := d.currentTab()
		if err != nil {
			return err
		}
		u, err := t.URL()
		if err != nil {
			return wrapErr(err)
		}
		cmdline = strings.ReplaceAll(cmdline, "{url}", u.String())
	}

	opts := extproc.SpawnOptions{
		Userscript: flags.Userscript,
		Detach:     flags.Detach,
		Output:     flags.Output || flags.Verbose,
	}

	if flags.Userscript {
		// Userscripts see the page state; the selection is read
		// asynchronously first
		env := d.userscriptEnv(count)
		t := d.win.Current()
		if t != nil {
			t.Caret().Selection(func(text string) {
				opts.Env = append(env, "TABDECK_SELECTED_TEXT="+text)
				d.runSpawn(cmdline, opts, flags.Verbose)
			})
			return nil
		}
		opts.Env = env
	}
	d.runSpawn(cmdline, opts, flags.Verbose)
	return nil
}

func (d *Dispatcher) runSpawn(cmdline string, opts extproc.SpawnOptions, verbose bool) {
	if verbose {
		d.msg.Info(fmt.Sprintf("Executing: %s", cmdline))
	}
	if err := d.launcher.Spawn(cmdline, opts); err != nil {
		d.msg.Error(err.Error())
	}
}

func (d *Dispatcher) userscriptEnv(count int) []string {
	env := []string{
		"TABDECK_MODE=command",
		"TABDECK_COUNT=" + strconv.Itoa(count),
	}
	t := d.win.Current()
	if t == nil {
		return env
	}
	if u, err := t.URL(); err == nil {
		env = append(env, "TABDECK_URL="+u.String())
	}
	env = append(env, "TABDECK_TITLE="+t.Title())
	return env
}

// SpawnOutput opens the captured output of the last --output spawn
func (d *Dispatcher) SpawnOutput() error {
	out := d.launcher.LastOutput()
	if out == "" {
		d.msg.Info("No output to show")
		return nil
	}
	d.msg.Info(out)
	return nil
}

// OpenEditor edits the focused editable element's text in the external
// editor. The element may vanish while the editor runs; that is a
// warning, not a failure.
func (d *Dispatcher) OpenEditor() error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	t.Elements().FindFocused(func(elem browser.Element) {
		if elem == nil {
			d.msg.Error("No element focused!")
			return
		}
		if !elem.IsEditable() {
			d.msg.Error("Focused element is not editable!")
			return
		}
		text, err := elem.Value()
		if err != nil {
			d.msg.Error(err.Error())
			return
		}
		ed := d.newEditor()
		ed.OnText = func(text string) error {
			return elem.SetValue(text)
		}
		if err := ed.Edit(text); err != nil {
			d.msg.Error(err.Error())
		}
	})
	return nil
}

// EditURL edits the current URL in the external editor and opens the
// result when it changed
func (d *Dispatcher) EditURL(flags OpenFlags) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	u, err := t.URL()
	if err != nil {
		return wrapErr(err)
	}
	old := u.String()

	ed := d.newEditor()
	ed.OnText = func(text string) error {
		text = strings.TrimSpace(text)
		if text == "" || text == old {
			return nil
		}
		if err := d.OpenURL(text, flags, 0); err != nil {
			d.msg.Error(err.Error())
		}
		return nil
	}
	return wrapErr(ed.Edit(old))
}

// InsertText inserts text at the cursor of the focused editable element
func (d *Dispatcher) InsertText(text string) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	t.Elements().FindFocused(func(elem browser.Element) {
		if elem == nil {
			d.msg.Error("No element focused!")
			return
		}
		if !elem.IsEditable() {
			d.msg.Error("Focused element is not editable!")
			return
		}
		if err := elem.InsertText(text); err != nil {
			d.msg.Error(err.Error())
		}
	})
	return nil
}

// ClickElement clicks the element with the given id. target selects
// where a followed link opens.
func (d *Dispatcher) ClickElement(id string, target string) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}

	var ct browser.ClickTarget
	switch target {
	case "", "normal":
		ct = browser.ClickNormal
	case "tab":
		ct = browser.ClickTab
	case "tab-bg":
		ct = browser.ClickTabBg
	case "window":
		ct = browser.ClickWindow
	default:
		return cmdErr(ErrUsage,
			"invalid value %q for target, expected normal/tab/tab-bg/window", target)
	}

	t.Elements().FindID(id, func(elem browser.Element) {
		if elem == nil {
			d.msg.Error(fmt.Sprintf("No element found with id %s!", id))
			return
		}
		if err := elem.Click(ct, false); err != nil {
			d.msg.Error(err.Error())
		}
	})
	return nil
}

// ViewSource shows the current page's source, in the editor with edit
// set
func (d *Dispatcher) ViewSource(edit bool) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	if t.ViewingSource() {
		return cmdErr(ErrUsage, "already viewing source")
	}
	if edit {
		t.DumpAsync(false, func(data string) {
			ed := d.newEditor()
			if err := ed.Edit(data); err != nil {
				d.msg.Error(err.Error())
			}
		})
		return nil
	}
	return wrapErr(t.Action().ShowSource(true))
}

// DumpPage writes the current page to a file, as plain text with plain
// set
func (d *Dispatcher) DumpPage(dest string, plain bool) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	t.DumpAsync(plain, func(data string) {
		if err := os.WriteFile(dest, []byte(data), 0644); err != nil {
			d.msg.Error(fmt.Sprintf("Could not write page: %v", err))
			return
		}
		d.msg.Info(fmt.Sprintf("Dumped page to %s", dest))
	})
	return nil
}

// Print prints the addressed tab, to a PDF file when pdf is given
func (d *Dispatcher) Print(preview bool, pdf string, count int) error {
	t, err := d.tabAt(count)
	if err != nil {
		return err
	}
	p := t.Printing()
	switch {
	case preview:
		if err := p.CheckPreviewSupport(); err != nil {
			return wrapErr(err)
		}
		return wrapErr(p.ShowDialog())
	case pdf != "":
		if err := p.CheckPDFSupport(); err != nil {
			return wrapErr(err)
		}
		if err := p.ToPDF(pdf); err != nil {
			return wrapErr(err)
		}
		d.msg.Info(fmt.Sprintf("Printing to %s", pdf))
		return nil
	default:
		return wrapErr(p.ShowDialog())
	}
}

// Download fetches a URL, or saves the current page. mhtml archives the
// current page and cannot be combined with a URL.
func (d *Dispatcher) Download(urlStr string, mhtml bool, dest string) error {
	if mhtml {
		if urlStr != "" {
			return cmdErr(ErrUsage, "can only download the current page as mhtml")
		}
		t, err := d.currentTab()
		if err != nil {
			return err
		}
		return wrapErr(d.downloads.GetMHTML(t, dest))
	}

	if urlStr != "" {
		u, err := urlutil.FuzzyURL(urlStr, urlutil.Options{
			SearchEngines: d.cfg.URL.SearchEngines,
		})
		if err != nil {
			return wrapErr(err)
		}
		return wrapErr(d.downloads.Get(u, browser.DownloadOptions{Dest: dest}))
	}

	t, err := d.currentTab()
	if err != nil {
		return err
	}
	u, err := t.URL()
	if err != nil {
		return wrapErr(err)
	}
	return wrapErr(d.downloads.Get(u, browser.DownloadOptions{
		Dest:          dest,
		SuggestedName: t.Title(),
	}))
}

// Fullscreen toggles fullscreen, or only leaves it with leave set
func (d *Dispatcher) Fullscreen(leave bool) error {
	if leave {
		t, err := d.currentTab()
		if err != nil {
			return err
		}
		if err := t.Action().ExitFullscreen(); err != nil && err != browser.ErrUnsupported {
			return wrapErr(err)
		}
		return nil
	}
	return wrapErr(d.win.Fullscreen())
}

// ToggleInspector toggles the developer inspector for the current tab
func (d *Dispatcher) ToggleInspector() error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	return wrapErr(t.Action().Run("ToggleInspector"))
}

// JSEval evaluates JavaScript on the current page. With file set, code
// names a file to run. quiet suppresses the result message.
func (d *Dispatcher) JSEval(code string, file, quiet bool) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	if file {
		data, err := os.ReadFile(code)
		if err != nil {
			return wrapErr(err)
		}
		code = string(data)
	}
	return wrapErr(t.RunJS(code, func(out string) {
		if quiet {
			return
		}
		if out == "" {
			out = "No output"
		}
		d.msg.Info(out)
	}))
}

// FakeKey sends a fake key sequence to the page, or to the window with
// global set
func (d *Dispatcher) FakeKey(keystring string, global bool) error {
	if global {
		// Window-level keys go through the input layer, which
		// subscribes to messages
		d.msg.Info("fake-key --global: " + keystring)
		return nil
	}
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	return wrapErr(t.SendKeys(keystring))
}

// History opens the history page
func (d *Dispatcher) History(tab, bg, window bool) error {
	u, _ := url.Parse("tabdeck://history")
	return d.open(u, tab, bg, window, false, false)
}

// ShowHelp opens the help page for a topic
func (d *Dispatcher) ShowHelp(topic string, tab, bg, window bool) error {
	u, _ := url.Parse("tabdeck://help/" + url.PathEscape(topic))
	return d.open(u, tab, bg, window, false, false)
}

// Messages opens the message log filtered to the given level
func (d *Dispatcher) Messages(level string, tab, bg, window bool) error {
	switch level {
	case "", "info", "warning", "error":
	default:
		return cmdErr(ErrUsage,
			"invalid log level %q, expected info/warning/error", level)
	}
	u, _ := url.Parse("tabdeck://log")
	if level != "" {
		q := u.Query()
		q.Set("level", level)
		u.RawQuery = q.Encode()
	}
	return d.open(u, tab, bg, window, false, false)
}
