package headless

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/config"
)

func newWindow(t *testing.T) (*Registry, *Window) {
	t.Helper()
	reg := NewRegistry(config.Default(), nil)
	return reg, reg.NewWindow(false).(*Window)
}

func open(t *testing.T, w *Window, s string) browser.Tab {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return w.Open(u, false, false)
}

func TestOpenRelatedInsertsAfterCurrent(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")
	open(t, w, "http://c.example")
	w.SetCurrentIndex(0)

	u, _ := url.Parse("http://new.example")
	w.Open(u, false, true)
	require.Equal(t, 1, w.CurrentIndex())

	got, err := w.TabAt(1).URL()
	require.NoError(t, err)
	require.Equal(t, "http://new.example", got.String())
}

func TestOpenBackgroundKeepsFocus(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")

	u, _ := url.Parse("http://bg.example")
	w.Open(u, true, true)
	require.Equal(t, 0, w.CurrentIndex())
	require.Equal(t, 2, w.Count())
}

func TestCloseSelectsConfiguredNeighbor(t *testing.T) {
	reg, w := newWindow(t)
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")
	open(t, w, "http://c.example")

	// Default "next": closing the middle tab selects the one after it
	w.SetCurrentIndex(1)
	w.Close(w.TabAt(1), browser.CloseOptions{})
	got, _ := w.Current().URL()
	require.Equal(t, "http://c.example", got.String())

	// "prev" selects the one before
	reg.cfg.Tabs.SelectOnRemove = config.SelectPrev
	open(t, w, "http://d.example")
	w.SetCurrentIndex(1)
	w.Close(w.TabAt(1), browser.CloseOptions{})
	got, _ = w.Current().URL()
	require.Equal(t, "http://a.example", got.String())
}

func TestCloseSelectsLastUsed(t *testing.T) {
	reg, w := newWindow(t)
	reg.cfg.Tabs.SelectOnRemove = config.SelectLastUsed
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")
	open(t, w, "http://c.example")

	w.SetCurrentIndex(0) // last used becomes c
	w.SetCurrentIndex(1) // last used becomes a

	w.Close(w.TabAt(1), browser.CloseOptions{})
	got, _ := w.Current().URL()
	require.Equal(t, "http://a.example", got.String())
}

func TestCloseOverrideBeatsConfig(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")
	open(t, w, "http://c.example")
	w.SetCurrentIndex(1)

	w.Close(w.TabAt(1), browser.CloseOptions{Select: browser.SelectPrevTab})
	got, _ := w.Current().URL()
	require.Equal(t, "http://a.example", got.String())
}

func TestUndoRestoresHistoryAndPosition(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")
	b := open(t, w, "http://b.example")
	b.Load(mustURL(t, "http://b.example/deep"))

	w.Close(b, browser.CloseOptions{AddUndo: true})
	require.Equal(t, 1, w.Count())

	require.NoError(t, w.Undo())
	require.Equal(t, 2, w.Count())
	require.Equal(t, 1, w.CurrentIndex())

	restored := w.Current()
	got, err := restored.URL()
	require.NoError(t, err)
	require.Equal(t, "http://b.example/deep", got.String())
	require.True(t, restored.History().CanGoBack())

	require.ErrorIs(t, w.Undo(), browser.ErrNothingToUndo)
}

func TestMoveKeepsCurrentTab(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")
	open(t, w, "http://c.example")
	w.SetCurrentIndex(2)

	w.Move(2, 0)
	require.Equal(t, 0, w.CurrentIndex())
	got, _ := w.Current().URL()
	require.Equal(t, "http://c.example", got.String())

	// Moving another tab across the current one shifts the index
	w.Move(2, 0)
	require.Equal(t, 1, w.CurrentIndex())
}

func TestRegistryTabsEnumeration(t *testing.T) {
	reg, w := newWindow(t)
	open(t, w, "http://a.example")
	w2 := reg.NewWindow(true).(*Window)
	open(t, w2, "http://b.example")

	infos := reg.Tabs()
	require.Len(t, infos, 2)
	require.Equal(t, w.WindowID(), infos[0].WindowID)
	require.Equal(t, "http://a.example", infos[0].URL)
	require.Equal(t, w2.WindowID(), infos[1].WindowID)
	require.True(t, infos[1].Active, "tab of the active window is active")
}

func TestHistoryBackForward(t *testing.T) {
	_, w := newWindow(t)
	tab := open(t, w, "http://a.example/1")
	tab.Load(mustURL(t, "http://a.example/2"))
	tab.Load(mustURL(t, "http://a.example/3"))

	h := tab.History()
	require.NoError(t, h.Back(2))
	got, _ := tab.URL()
	require.Equal(t, "http://a.example/1", got.String())
	require.Error(t, h.Back(1))

	require.NoError(t, h.Forward(1))
	got, _ = tab.URL()
	require.Equal(t, "http://a.example/2", got.String())

	// Loading truncates the forward history
	tab.Load(mustURL(t, "http://a.example/new"))
	require.False(t, h.CanGoForward())
}

func TestFilePageReadsFromDisk(t *testing.T) {
	_, w := newWindow(t)

	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0644))

	tab := w.Open(&url.URL{Scheme: "file", Path: path}, false, false).(*Tab)
	require.Equal(t, []string{"line one", "line two"}, tab.doc.Lines)
}

func TestInternalTabsPageListsTabs(t *testing.T) {
	_, w := newWindow(t)
	open(t, w, "http://a.example")
	open(t, w, "http://b.example")

	tab := w.Open(mustURL(t, "tabdeck://tabs"), false, false).(*Tab)
	text := ""
	tab.DumpAsync(true, func(data string) { text = data })
	require.Contains(t, text, "http://a.example")
	require.Contains(t, text, "http://b.example")
}

func TestDownloadManagerWritesRenderedPage(t *testing.T) {
	reg, w := newWindow(t)
	tab := open(t, w, "http://a.example/report")

	dir := t.TempDir()
	dm := NewDownloadManager(reg, dir)

	u, _ := tab.URL()
	require.NoError(t, dm.Get(u, browser.DownloadOptions{}))
	data, err := os.ReadFile(filepath.Join(dir, "report"))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	dest := filepath.Join(dir, "snapshot.mhtml")
	require.NoError(t, dm.GetMHTML(tab, dest))
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "http://a.example/report")
}

func TestZoomLadderBounds(t *testing.T) {
	_, w := newWindow(t)
	tab := open(t, w, "http://a.example")

	z := tab.Zoom()
	level, err := z.Offset(1)
	require.NoError(t, err)
	require.Equal(t, 110, level)

	require.NoError(t, z.SetFactor(5.0))
	_, err = z.Offset(1)
	require.Error(t, err)

	require.Error(t, z.SetFactor(50))
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}
