// Package dispatcher is the command layer: it maps user-invokable
// commands with parsed arguments onto the active tab and window.
package dispatcher

import (
	"net/url"

	"tabdeck/internal/browser"
	"tabdeck/internal/config"
	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
	"tabdeck/internal/extproc"
	"tabdeck/internal/urlmarks"
)

// Messenger displays user-visible messages. Soft failures go through
// here instead of the error return.
type Messenger interface {
	Info(text string)
	Warning(text string)
	Error(text string)
}

// BusMessenger publishes messages as events
type BusMessenger struct {
	Bus eventbus.EventBus
}

func (m BusMessenger) Info(text string) {
	m.Bus.Publish(eventbus.MessageShownEvent{Level: domain.LevelInfo, Text: text})
}

func (m BusMessenger) Warning(text string) {
	m.Bus.Publish(eventbus.MessageShownEvent{Level: domain.LevelWarning, Text: text})
}

func (m BusMessenger) Error(text string) {
	m.Bus.Publish(eventbus.MessageShownEvent{Level: domain.LevelError, Text: text})
}

// Deps are the dispatcher's collaborators, passed explicitly
type Deps struct {
	WindowID   int
	Window     browser.Container
	Registry   browser.WindowRegistry
	Config     *config.Config
	Quickmarks *urlmarks.Quickmarks
	Bookmarks  *urlmarks.Bookmarks
	Downloads  browser.DownloadManager
	Launcher   *extproc.Launcher
	Messenger  Messenger
	Bus        eventbus.EventBus
	Clipboard  Clipboard

	// NewEditor builds an editor runner per invocation; nil uses
	// extproc with the configured command
	NewEditor func() *extproc.Editor
}

// Dispatcher executes commands against one window
type Dispatcher struct {
	winID      int
	win        browser.Container
	registry   browser.WindowRegistry
	cfg        *config.Config
	quickmarks *urlmarks.Quickmarks
	bookmarks  *urlmarks.Bookmarks
	downloads  browser.DownloadManager
	launcher   *extproc.Launcher
	msg        Messenger
	bus        eventbus.EventBus
	clip       Clipboard
	newEditor  func() *extproc.Editor
}

// New creates a dispatcher for the window in deps
func New(deps Deps) *Dispatcher {
	d := &Dispatcher{
		winID:      deps.WindowID,
		win:        deps.Window,
		registry:   deps.Registry,
		cfg:        deps.Config,
		quickmarks: deps.Quickmarks,
		bookmarks:  deps.Bookmarks,
		downloads:  deps.Downloads,
		launcher:   deps.Launcher,
		msg:        deps.Messenger,
		bus:        deps.Bus,
		clip:       deps.Clipboard,
		newEditor:  deps.NewEditor,
	}
	if d.msg == nil && deps.Bus != nil {
		d.msg = BusMessenger{Bus: deps.Bus}
	}
	if d.clip == nil {
		d.clip = SystemClipboard{}
	}
	if d.newEditor == nil {
		d.newEditor = func() *extproc.Editor {
			return extproc.NewEditor(deps.Bus, deps.Config.Editor.Command)
		}
	}
	return d
}

// currentTab returns the focused tab, erroring when the window is empty
func (d *Dispatcher) currentTab() (browser.Tab, error) {
	t := d.win.Current()
	if t == nil {
		return nil, cmdErr(ErrNoTab, "no tab available")
	}
	return t, nil
}

// tabAt resolves an optional 1-based count to a tab: 0 means the
// current tab. Out-of-range counts error uniformly.
func (d *Dispatcher) tabAt(count int) (browser.Tab, error) {
	if count == 0 {
		return d.currentTab()
	}
	if count < 1 || count > d.win.Count() {
		return nil, cmdErr(ErrNoSuchTab, "no tab with index %d", count)
	}
	return d.win.TabAt(count - 1), nil
}

// repeat normalizes a count used as a repetition: absent means once
func repeat(count int) int {
	if count < 1 {
		return 1
	}
	return count
}

// open opens a URL honoring the destination flags. At most one of tab,
// bg, window and private may be set. related positions a new tab next
// to the current one instead of appending it.
func (d *Dispatcher) open(u *url.URL, tab, bg, window, private, related bool) error {
	set := 0
	for _, f := range []bool{tab, bg, window, private} {
		if f {
			set++
		}
	}
	if set > 1 {
		return cmdErr(ErrUsage, "only one of -t/-b/-w/-p can be given")
	}

	if u == nil {
		du, err := url.Parse(d.cfg.URL.DefaultPage)
		if err != nil {
			return wrapErr(err)
		}
		u = du
	}

	switch {
	case window || private:
		w := d.registry.NewWindow(private)
		w.Open(u, false, false)
	case (tab || bg) && d.cfg.Tabs.TabsAreWindows:
		w := d.registry.NewWindow(d.win.Private())
		w.Open(u, bg, false)
	case tab || bg:
		d.win.Open(u, bg, related)
	default:
		t, err := d.currentTab()
		if err != nil {
			// An empty window still opens the URL in a fresh tab
			d.win.Open(u, false, false)
			return nil
		}
		t.Load(u)
	}
	return nil
}

// saveJumpMark stores the current position under ' so a jump back is
// possible after navigation-like commands
func (d *Dispatcher) saveJumpMark() {
	if d.win.Current() != nil {
		_ = d.win.SetMark('\'')
	}
}
