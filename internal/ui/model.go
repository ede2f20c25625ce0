package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tabdeck/internal/browser"
	"tabdeck/internal/config"
	"tabdeck/internal/dispatcher"
	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
	"tabdeck/internal/ui/commands"
	"tabdeck/internal/ui/views"
)

// Input modes of the shell
const (
	modeNormal  = "normal"
	modeCommand = "command"
	modeSearch  = "search"
)

// Model is the bubbletea shell. It translates keys and command lines
// into dispatcher calls and renders the active window; it owns no
// browser state of its own.
type Model struct {
	bus  eventbus.EventBus
	cfg  *config.Config
	disp *dispatcher.Dispatcher
	reg  browser.WindowRegistry
	cmds *commands.Registry

	width  int
	height int

	mode       string
	input      textinput.Model
	reverse    bool            // search direction for the open search prompt
	countBuf   string          // digits typed in normal mode
	pending    string          // multi-key prefix (g, y, m, ', z)
	pendingGen int             // invalidates stale pending timeouts

	message  string
	msgLevel domain.MessageLevel

	renderer *views.Renderer
}

// NewModel creates the shell bound to a dispatcher and registry
func NewModel(bus eventbus.EventBus, cfg *config.Config, d *dispatcher.Dispatcher, reg browser.WindowRegistry) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 512

	return &Model{
		bus:      bus,
		cfg:      cfg,
		disp:     d,
		reg:      reg,
		cmds:     commands.NewExecutor(d),
		mode:     modeNormal,
		input:    input,
		renderer: views.NewRenderer(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MessageMsg:
		m.message = msg.Text
		m.msgLevel = msg.Level
		return m, tea.Tick(5*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		})

	case clearMessageMsg:
		m.message = ""

	case clearPendingMsg:
		if msg.gen == m.pendingGen {
			m.pending = ""
		}

	case RefreshMsg:
		// State lives in the backend; receiving the event is enough
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeCommand:
		return m.handleCommandKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.leavePrompt()
		return m, nil

	case tea.KeyEnter:
		line := m.input.Value()
		m.leavePrompt()
		return m.runCommand(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.leavePrompt()
		return m, nil

	case tea.KeyEnter:
		text := m.input.Value()
		reverse := m.reverse
		m.leavePrompt()
		m.report(m.disp.Search(text, reverse))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// A mark prefix consumes the next key whole
	switch m.pending {
	case "m":
		m.pending = ""
		m.report(m.disp.SetMark(key))
		return m, nil
	case "'", "`":
		m.pending = ""
		m.report(m.disp.JumpMark(key))
		return m, nil
	}

	if m.pending != "" {
		combo := m.pending + key
		m.pending = ""
		return m.handleCombo(combo)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.countBuf = ""
		m.message = ""
		m.report(m.disp.DropSelection())
		return m, nil
	case tea.KeyCtrlD:
		m.report(m.disp.ScrollPage(0, 0.5, "", "", m.takeCount()))
		return m, nil
	case tea.KeyCtrlU:
		m.report(m.disp.ScrollPage(0, -0.5, "", "", m.takeCount()))
		return m, nil
	}

	// Digits accumulate into the count for the next command
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && !(key == "0" && m.countBuf == "") {
		m.countBuf += key
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "j":
		m.report(m.disp.Scroll("down", m.takeCount()))
	case "k":
		m.report(m.disp.Scroll("up", m.takeCount()))
	case "h":
		m.report(m.disp.Scroll("left", m.takeCount()))
	case "l":
		m.report(m.disp.Scroll("right", m.takeCount()))
	case "G":
		m.report(m.disp.Scroll("bottom", m.takeCount()))

	case "g", "y", "z", "m", "'", "`":
		return m, m.armPending(key)

	case "J":
		m.report(m.disp.TabNext(m.takeCount()))
	case "K":
		m.report(m.disp.TabPrev(m.takeCount()))

	case "d":
		m.report(m.disp.TabClose(dispatcher.CloseFlags{}, m.takeCount()))
	case "u":
		m.report(m.disp.Undo())

	case "H":
		m.report(m.disp.Back(false, false, false, m.takeCount()))
	case "L":
		m.report(m.disp.Forward(false, false, false, m.takeCount()))

	case "r":
		m.report(m.disp.Reload(false, m.takeCount()))
	case "R":
		m.report(m.disp.Reload(true, m.takeCount()))

	case "n":
		m.report(m.disp.SearchNext(m.takeCount()))
	case "N":
		m.report(m.disp.SearchPrev(m.takeCount()))

	case "+":
		m.report(m.disp.ZoomIn(m.takeCount()))
	case "-":
		m.report(m.disp.ZoomOut(m.takeCount()))
	case "=":
		m.report(m.disp.Zoom("", m.takeCount()))

	case "o":
		m.enterPrompt(modeCommand, "open ")
	case "O":
		m.enterPrompt(modeCommand, "open -t ")
	case "T":
		m.enterPrompt(modeCommand, "buffer ")
	case ":":
		m.enterPrompt(modeCommand, "")
	case "/":
		m.reverse = false
		m.enterPrompt(modeSearch, "")
	case "?":
		m.reverse = true
		m.enterPrompt(modeSearch, "")
	}
	return m, nil
}

// handleCombo handles two-key sequences like gg and yy
func (m *Model) handleCombo(combo string) (tea.Model, tea.Cmd) {
	switch combo {
	case "gg":
		m.report(m.disp.Scroll("top", m.takeCount()))
	case "gt":
		m.report(m.disp.TabNext(m.takeCount()))
	case "gT":
		m.report(m.disp.TabPrev(m.takeCount()))
	case "gu":
		m.report(m.disp.Navigate("up", false, false, false, m.takeCount()))

	case "yy":
		m.report(m.disp.Yank("url", false, false))
	case "yt":
		m.report(m.disp.Yank("title", false, false))
	case "yd":
		m.report(m.disp.Yank("domain", false, false))
	case "yp":
		m.report(m.disp.Yank("pretty-url", false, false))

	case "zi":
		m.report(m.disp.ZoomIn(m.takeCount()))
	case "zo":
		m.report(m.disp.ZoomOut(m.takeCount()))
	case "zz":
		m.report(m.disp.Zoom("", m.takeCount()))
	default:
		m.countBuf = ""
	}
	return m, nil
}

// clearPendingMsg drops a pending key prefix that was never completed
type clearPendingMsg struct {
	gen int
}

// armPending stores a multi-key prefix and schedules its expiry after
// the configured partial timeout
func (m *Model) armPending(key string) tea.Cmd {
	m.pending = key
	m.pendingGen++
	gen := m.pendingGen
	timeout := time.Duration(m.cfg.Input.PartialTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		return nil
	}
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return clearPendingMsg{gen: gen}
	})
}

func (m *Model) enterPrompt(mode, prefill string) {
	m.mode = mode
	m.input.SetValue(m.countBuf + prefill)
	m.countBuf = ""
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) leavePrompt() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// runCommand executes a command line. quit is handled here since the
// dispatcher has no notion of the process lifetime.
func (m *Model) runCommand(line string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "0123456789")
	if fields := strings.Fields(trimmed); len(fields) > 0 {
		switch fields[0] {
		case "q", "quit", "wq":
			return m, tea.Quit
		}
	}
	m.report(m.cmds.Execute(line))
	return m, nil
}

// report shows a dispatcher error in the message bar. Soft messages
// arrive through the bus instead.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.message = err.Error()
	m.msgLevel = domain.LevelError
}

// takeCount consumes the typed count, 0 when none was typed
func (m *Model) takeCount() int {
	if m.countBuf == "" {
		return 0
	}
	n, err := strconv.Atoi(m.countBuf)
	m.countBuf = ""
	if err != nil {
		return 0
	}
	return n
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := &views.ViewState{
		Width:    m.width,
		Height:   m.height,
		Mode:     m.mode,
		Message:  m.message,
		MsgLevel: m.msgLevel,
	}

	switch m.mode {
	case modeCommand:
		state.CommandView = ":" + m.input.View()
	case modeSearch:
		if m.reverse {
			state.CommandView = "?" + m.input.View()
		} else {
			state.CommandView = "/" + m.input.View()
		}
	}

	win := m.reg.Active()
	if win == nil {
		return m.renderer.Render(state)
	}
	state.WindowID = win.WindowID()

	for _, info := range m.reg.Tabs() {
		if info.WindowID == win.WindowID() {
			state.Tabs = append(state.Tabs, info)
		}
	}

	if fs, ok := win.(interface{ IsFullscreen() bool }); ok {
		state.Fullscreen = fs.IsFullscreen()
	}

	tab := win.Current()
	if tab == nil {
		return m.renderer.Render(state)
	}

	if u, err := tab.URL(); err == nil {
		state.URL = u.String()
	}
	state.Title = tab.Title()

	var text string
	tab.DumpAsync(true, func(data string) { text = data })
	lines := strings.Split(text, "\n")
	pos := tab.Scroller().Pos()
	state.ScrollY = pos.Y
	state.MaxY = len(lines) - 1
	if pos.Y < len(lines) {
		lines = lines[pos.Y:]
	} else {
		lines = nil
	}
	state.PageLines = lines

	return m.renderer.Render(state)
}
