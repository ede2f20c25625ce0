package commands

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
	"tabdeck/internal/config"
	"tabdeck/internal/dispatcher"
	"tabdeck/internal/extproc"
	"tabdeck/internal/urlmarks"
)

type silentMessenger struct{}

func (silentMessenger) Info(string)    {}
func (silentMessenger) Warning(string) {}
func (silentMessenger) Error(string)   {}

func newExecEnv(t *testing.T) (*Registry, browser.Container) {
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
		Messenger:  silentMessenger{},
	})
	return NewExecutor(d), win
}

func open(t *testing.T, win browser.Container, s string) {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	win.Open(u, false, false)
}

func TestExecuteOpenInTab(t *testing.T) {
	exec, win := newExecEnv(t)
	open(t, win, "http://a.example")

	require.NoError(t, exec.Execute("open -t http://b.example"))
	require.Equal(t, 2, win.Count())

	u, err := win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "http://b.example", u.String())
}

func TestExecuteCountedTabNext(t *testing.T) {
	exec, win := newExecEnv(t)
	for _, s := range []string{"http://a.example", "http://b.example", "http://c.example", "http://d.example"} {
		open(t, win, s)
	}
	win.SetCurrentIndex(0)

	require.NoError(t, exec.Execute("3tab-next"))
	require.Equal(t, 3, win.CurrentIndex())
}

func TestExecuteTabFocusAndMove(t *testing.T) {
	exec, win := newExecEnv(t)
	for _, s := range []string{"http://a.example", "http://b.example", "http://c.example"} {
		open(t, win, s)
	}

	require.NoError(t, exec.Execute("tab-focus 1"))
	require.Equal(t, 0, win.CurrentIndex())

	require.NoError(t, exec.Execute("tab-move +2"))
	require.Equal(t, 2, win.CurrentIndex())
	u, _ := win.Current().URL()
	require.Equal(t, "http://a.example", u.String())
}

func TestExecuteConflictingFlagsSurface(t *testing.T) {
	exec, win := newExecEnv(t)
	open(t, win, "http://a.example")

	err := exec.Execute("open -t -b http://b.example")
	require.ErrorContains(t, err, "only one of")
}

func TestExecuteUnknownCommand(t *testing.T) {
	exec, _ := newExecEnv(t)
	require.ErrorContains(t, exec.Execute("frobnicate"), "no such command")
}

func TestExecuteZoomRoundtrip(t *testing.T) {
	exec, win := newExecEnv(t)
	open(t, win, "http://a.example")

	require.NoError(t, exec.Execute("zoom 150"))
	require.InDelta(t, 1.5, win.Current().Zoom().Factor(), 0.001)

	require.NoError(t, exec.Execute("zoom-out"))
	require.InDelta(t, 1.25, win.Current().Zoom().Factor(), 0.001)
}
