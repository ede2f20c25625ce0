package dispatcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
)

// elementAdder is implemented by the headless element store
type elementAdder interface {
	AddElement(id string, e *headless.Element)
	Focus(id string)
}

func TestSpawnArgumentValidation(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	err := env.d.Spawn("ls", SpawnFlags{Userscript: true, Detach: true}, 0)
	require.ErrorIs(t, err, ErrUsage)

	err = env.d.Spawn("", SpawnFlags{}, 0)
	require.ErrorIs(t, err, ErrUsage)
}

func TestSpawnFailureIsReported(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.Spawn("definitely-not-a-command-xyz", SpawnFlags{}, 0))
	require.NotEmpty(t, env.msg.errs)
}

func TestDownloadWritesCurrentPage(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example/report")
	dest := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, env.d.Download("", false, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestDownloadMHTMLRejectsURL(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	err := env.d.Download("http://b.example", true, "")
	require.ErrorIs(t, err, ErrUsage)
}

func TestDumpPage(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")
	dest := filepath.Join(t.TempDir(), "page.txt")

	require.NoError(t, env.d.DumpPage(dest, true))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "a.example")
}

func TestPrintToPDF(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")
	dest := filepath.Join(t.TempDir(), "page.pdf")

	require.NoError(t, env.d.Print(false, dest, 0))
	_, err := os.Stat(dest)
	require.NoError(t, err)

	// Preview is not available on the headless backend
	err = env.d.Print(true, "", 0)
	require.Error(t, err)
}

func TestMessagesValidatesLevel(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	err := env.d.Messages("loud", false, false, false)
	require.ErrorIs(t, err, ErrUsage)

	require.NoError(t, env.d.Messages("error", false, false, false))
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "tabdeck", u.Scheme)
	require.Equal(t, "log", u.Host)
	require.Equal(t, "error", u.Query().Get("level"))
}

func TestHistoryAndHelpOpenInternalPages(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.History(true, false, false))
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "tabdeck://history", u.String())

	require.NoError(t, env.d.ShowHelp("tab-close", true, false, false))
	u, err = env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "tabdeck://help/tab-close", u.String())
}

func TestViewSource(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.ViewSource(false))
	require.Equal(t, 2, env.win.Count())
	require.True(t, env.win.Current().ViewingSource())

	err := env.d.ViewSource(false)
	require.ErrorIs(t, err, ErrUsage)
}

func TestInsertTextIntoFocusedElement(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	es := env.win.Current().Elements().(elementAdder)
	es.AddElement("input", &headless.Element{Editable: true, Text: "hello", Caret: 5})
	es.Focus("input")

	require.NoError(t, env.d.InsertText(" world"))
	elem := findByID(t, env, "input")
	require.Equal(t, "hello world", elem.Text)
}

func TestInsertTextWithoutFocusIsSoft(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.InsertText("x"))
	require.Contains(t, env.msg.errs, "No element focused!")
}

func TestClickElement(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	es := env.win.Current().Elements().(elementAdder)
	es.AddElement("btn", &headless.Element{})

	require.NoError(t, env.d.ClickElement("btn", ""))
	require.Equal(t, 1, findByID(t, env, "btn").Clicked)

	err := env.d.ClickElement("btn", "everywhere")
	require.ErrorIs(t, err, ErrUsage)

	require.NoError(t, env.d.ClickElement("ghost", ""))
	require.NotEmpty(t, env.msg.errs)
}

func TestClickOrphanedElementIsSoft(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	es := env.win.Current().Elements().(elementAdder)
	es.AddElement("gone", &headless.Element{Removed: true})

	require.NoError(t, env.d.ClickElement("gone", ""))
	require.NotEmpty(t, env.msg.errs)
}

func TestJSEvalUnsupportedOnHeadless(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	err := env.d.JSEval("1+1", false, false)
	require.Error(t, err)
	require.ErrorIs(t, err, browser.ErrUnsupported)
}

func TestFakeKeySendsToPage(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.FakeKey("<Esc>x", false))
	tab := env.win.Current().(*headless.Tab)
	require.Equal(t, []string{"<Esc>x"}, tab.KeyLog())
}

func TestFullscreenToggle(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.Fullscreen(false))
	require.NoError(t, env.d.Fullscreen(true))
}

func findByID(t *testing.T, env *testEnv, id string) *headless.Element {
	t.Helper()
	var out *headless.Element
	env.win.Current().Elements().FindID(id, func(e browser.Element) {
		if e != nil {
			out = e.(*headless.Element)
		}
	})
	require.NotNil(t, out, "element %s should exist", id)
	return out
}
