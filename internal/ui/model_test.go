package ui

import (
	"net/url"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
	"tabdeck/internal/config"
	"tabdeck/internal/dispatcher"
	"tabdeck/internal/extproc"
	"tabdeck/internal/urlmarks"
)

type quietMessenger struct{}

func (quietMessenger) Info(string)    {}
func (quietMessenger) Warning(string) {}
func (quietMessenger) Error(string)   {}

func newTestModel(t *testing.T) (*Model, browser.Container) {
	t.Helper()
	cfg := config.Default()
	reg := headless.NewRegistry(cfg, nil)
	win := reg.NewWindow(false)

	d := dispatcher.New(dispatcher.Deps{
		WindowID:   win.WindowID(),
		Window:     win,
		Registry:   reg,
		Config:     cfg,
		Quickmarks: urlmarks.NewQuickmarks(t.TempDir()),
		Bookmarks:  urlmarks.NewBookmarks(t.TempDir()),
		Downloads:  headless.NewDownloadManager(reg, t.TempDir()),
		Launcher:   extproc.NewLauncher(nil, ""),
		Messenger:  quietMessenger{},
	})
	return NewModel(nil, cfg, d, reg), win
}

func openTab(t *testing.T, win browser.Container, s string) {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	win.Open(u, false, false)
}

// press feeds one printable key to the model
func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func TestCountedComboSwitchesTabs(t *testing.T) {
	m, win := newTestModel(t)
	for _, s := range []string{"http://a.example", "http://b.example", "http://c.example", "http://d.example"} {
		openTab(t, win, s)
	}
	win.SetCurrentIndex(0)

	press(m, "3", "g", "t")
	require.Equal(t, 3, win.CurrentIndex())
}

func TestCloseKeyClosesTab(t *testing.T) {
	m, win := newTestModel(t)
	openTab(t, win, "http://a.example")
	openTab(t, win, "http://b.example")

	press(m, "d")
	require.Equal(t, 1, win.Count())
}

func TestColonEntersCommandMode(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, ":")
	require.Equal(t, modeCommand, m.mode)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modeNormal, m.mode)
}

func TestCommandLineExecutes(t *testing.T) {
	m, win := newTestModel(t)
	openTab(t, win, "http://a.example")

	press(m, ":")
	m.input.SetValue("open -t http://b.example")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, modeNormal, m.mode)
	require.Equal(t, 2, win.Count())
}

func TestQuitKeyReturnsQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEscapeClearsCount(t *testing.T) {
	m, win := newTestModel(t)
	openTab(t, win, "http://a.example")

	press(m, "4", "2")
	require.Equal(t, "42", m.countBuf)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "", m.countBuf)
}

func TestPendingPrefixExpires(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "g")
	require.Equal(t, "g", m.pending)

	m.Update(clearPendingMsg{gen: m.pendingGen})
	require.Equal(t, "", m.pending)
}

func TestStalePendingTimeoutIsIgnored(t *testing.T) {
	m, win := newTestModel(t)
	openTab(t, win, "http://a.example")

	press(m, "g", "g") // completes the combo
	press(m, "y")
	m.Update(clearPendingMsg{gen: m.pendingGen - 1})
	require.Equal(t, "y", m.pending)
}
