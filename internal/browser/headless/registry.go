package headless

import (
	"fmt"
	"net/url"
	"sort"
	"sync"

	"tabdeck/internal/browser"
	"tabdeck/internal/config"
	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
)

// maxLogMessages bounds the message ring shown on tabdeck://log
const maxLogMessages = 500

type globalMark struct {
	winID int
	tab   *Tab
	pos   domain.ScrollPos
}

// Registry is the headless browser.WindowRegistry implementation. It
// owns all windows, the global marks and the page loader.
type Registry struct {
	cfg *config.Config
	bus eventbus.EventBus

	windows map[int]*Window
	nextID  int
	active  int

	globalMarks map[rune]globalMark

	msgMu    sync.Mutex
	messages []logMessage

	// Loader renders URLs into documents. Replaceable in tests.
	Loader func(u *url.URL) (title string, doc *Document)
}

type logMessage struct {
	level domain.MessageLevel
	text  string
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *config.Config, bus eventbus.EventBus) *Registry {
	r := &Registry{
		cfg:         cfg,
		bus:         bus,
		windows:     make(map[int]*Window),
		globalMarks: make(map[rune]globalMark),
	}
	r.Loader = r.renderPage
	if bus != nil {
		bus.Subscribe(eventbus.EventMessageShown, func(ev eventbus.DomainEvent) {
			msg, ok := ev.(eventbus.MessageShownEvent)
			if !ok {
				return
			}
			r.msgMu.Lock()
			r.messages = append(r.messages, logMessage{level: msg.Level, text: msg.Text})
			if len(r.messages) > maxLogMessages {
				r.messages = r.messages[len(r.messages)-maxLogMessages:]
			}
			r.msgMu.Unlock()
		})
	}
	return r
}

// logLines renders the stored messages, filtered to one level when
// level is non-empty
func (r *Registry) logLines(level string) []string {
	r.msgMu.Lock()
	defer r.msgMu.Unlock()
	lines := []string{"Messages", ""}
	for _, m := range r.messages {
		if level != "" && m.level.String() != level {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.level, m.text))
	}
	return lines
}

func (r *Registry) WindowIDs() []int {
	ids := make([]int, 0, len(r.windows))
	for id := range r.windows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Registry) Window(id int) browser.Container {
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	return w
}

func (r *Registry) Active() browser.Container {
	w, ok := r.windows[r.active]
	if !ok {
		return nil
	}
	return w
}

// NewWindow creates a window with no tabs and makes it active
func (r *Registry) NewWindow(private bool) browser.Container {
	w := &Window{
		reg:        r,
		id:         r.nextID,
		private:    private,
		localMarks: make(map[rune]localMark),
	}
	r.windows[w.id] = w
	r.nextID++
	r.active = w.id
	return w
}

// Tabs enumerates every tab across all windows, in window id order
func (r *Registry) Tabs() []domain.TabInfo {
	var infos []domain.TabInfo
	for _, id := range r.WindowIDs() {
		w := r.windows[id]
		for i, t := range w.tabs {
			urlStr := ""
			if t.url != nil {
				urlStr = t.url.String()
			}
			infos = append(infos, domain.TabInfo{
				WindowID: id,
				Index:    i,
				URL:      urlStr,
				Title:    t.title,
				Pinned:   t.pinned,
				Muted:    t.audio.muted,
				Active:   i == w.current && id == r.active,
			})
		}
	}
	return infos
}

// Raise makes the window with the given id active
func (r *Registry) Raise(id int) {
	if _, ok := r.windows[id]; ok {
		r.active = id
	}
}

// CloseWindow removes a window from the registry
func (r *Registry) CloseWindow(id int) {
	delete(r.windows, id)
	if r.active == id {
		ids := r.WindowIDs()
		if len(ids) > 0 {
			r.active = ids[len(ids)-1]
		}
	}
}

func (r *Registry) load(u *url.URL) (string, *Document) {
	return r.Loader(u)
}
