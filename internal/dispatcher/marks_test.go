package dispatcher

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
)

// tallDoc installs a 200-line page so there is room to scroll
func tallDoc(env *testEnv, t *testing.T, urls ...string) {
	t.Helper()
	env.reg.Loader = func(u *url.URL) (string, *headless.Document) {
		lines := make([]string, 200)
		for i := range lines {
			lines[i] = "content"
		}
		return u.Host, headless.NewDocument(lines)
	}
	env.openTabs(t, urls...)
}

func TestSetAndJumpMark(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")
	sc := env.win.Current().Scroller()

	sc.ToPerc(nil, intPtr(50))
	saved := sc.Pos()
	require.NoError(t, env.d.SetMark("a"))

	sc.Top()
	require.NoError(t, env.d.JumpMark("a"))
	require.Equal(t, saved, sc.Pos())

	// The position before the jump lands on ' so jumps toggle
	require.NoError(t, env.d.JumpMark("'"))
	require.Equal(t, 0, sc.Pos().Y)
}

func TestJumpMarkUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")

	err := env.d.JumpMark("z")
	require.Error(t, err)
	require.ErrorIs(t, err, browser.ErrNoMark)

	err = env.d.SetMark("ab")
	require.ErrorIs(t, err, ErrUsage)
}

func TestGlobalMarkCrossesWindows(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")
	env.win.Current().Scroller().ToPerc(nil, intPtr(40))
	require.NoError(t, env.d.SetMark("A"))

	w2 := env.reg.NewWindow(false)
	w2.Open(mustParse(t, "http://b.example"), false, false)
	require.NoError(t, w2.JumpMark('A'))
	require.Equal(t, env.win.WindowID(), env.reg.Active().WindowID())
}

func TestQuickmarkRoundtrip(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://work.example/dash")

	require.NoError(t, env.d.QuickmarkSave("work"))
	require.NoError(t, env.d.QuickmarkLoad("work", true, false, false))
	require.Equal(t, 2, env.win.Count())
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "http://work.example/dash", u.String())

	err = env.d.QuickmarkLoad("unknown", false, false, false)
	require.Error(t, err)

	// Deleting without a name uses the current page's quickmark
	require.NoError(t, env.d.QuickmarkDel(""))
	err = env.d.QuickmarkLoad("work", false, false, false)
	require.Error(t, err)
}

func TestBookmarkAddToggleDelete(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example/page")

	// URL given without a title is rejected
	err := env.d.BookmarkAdd("http://b.example", "", false)
	require.ErrorIs(t, err, ErrUsage)

	require.NoError(t, env.d.BookmarkAdd("", "", false))
	err = env.d.BookmarkAdd("", "", false)
	require.ErrorIs(t, err, ErrUsage)

	// toggle removes instead of failing
	require.NoError(t, env.d.BookmarkAdd("", "", true))
	require.NoError(t, env.d.BookmarkAdd("", "", false))

	require.NoError(t, env.d.BookmarkDel(""))
	err = env.d.BookmarkDel("")
	require.Error(t, err)
}

func TestBookmarkLoad(t *testing.T) {
	env := newTestEnv(t)
	env.openTabs(t, "http://a.example")
	require.NoError(t, env.d.BookmarkAdd("http://b.example/docs", "docs", false))

	require.NoError(t, env.d.BookmarkLoad("http://b.example/docs", true, false, false, false))
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "http://b.example/docs", u.String())

	// delete flag removes the bookmark after opening
	require.NoError(t, env.d.BookmarkLoad("http://b.example/docs", true, false, false, true))
	err = env.d.BookmarkLoad("http://b.example/docs", false, false, false, false)
	require.ErrorIs(t, err, ErrUsage)
}
