package dispatcher

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser/headless"
)

func TestScrollDirections(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")
	sc := env.win.Current().Scroller()

	require.NoError(t, env.d.Scroll("down", 3))
	require.Equal(t, 3, sc.Pos().Y)

	require.NoError(t, env.d.Scroll("up", 1))
	require.Equal(t, 2, sc.Pos().Y)

	require.NoError(t, env.d.Scroll("bottom", 0))
	require.True(t, sc.AtBottom())

	require.NoError(t, env.d.Scroll("top", 0))
	require.True(t, sc.AtTop())

	require.NoError(t, env.d.Scroll("page-down", 2))
	require.Equal(t, 50, sc.Pos().Y)

	err := env.d.Scroll("sideways", 0)
	require.ErrorIs(t, err, ErrUsage)
}

func TestScrollToPerc(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")
	sc := env.win.Current().Scroller()

	// Default with no argument is the very bottom
	require.NoError(t, env.d.ScrollToPerc("", false, 0))
	require.True(t, sc.AtBottom())

	require.NoError(t, env.d.ScrollToPerc("0", false, 0))
	require.True(t, sc.AtTop())

	// A count takes precedence, trailing % is tolerated
	require.NoError(t, env.d.ScrollToPerc("100%", false, 50))
	require.Equal(t, 87, sc.Pos().Y)

	err := env.d.ScrollToPerc("half", false, 0)
	require.ErrorIs(t, err, ErrUsage)
}

func TestScrollToAnchor(t *testing.T) {
	env := newTestEnv(t)
	env.reg.Loader = func(u *url.URL) (string, *headless.Document) {
		lines := make([]string, 100)
		doc := headless.NewDocument(lines)
		doc.Anchors["section"] = 60
		return u.Host, doc
	}
	env.openTabs(t, "http://a.example")

	require.NoError(t, env.d.ScrollToAnchor("section"))
	require.Equal(t, 60, env.win.Current().Scroller().Pos().Y)

	err := env.d.ScrollToAnchor("missing")
	require.Error(t, err)
}

func TestScrollPageChainsNavigationAtEdges(t *testing.T) {
	env := newTestEnv(t)
	env.reg.Loader = func(u *url.URL) (string, *headless.Document) {
		// A short page: always both at top and at bottom
		return u.Host, headless.NewDocument([]string{"only line"})
	}
	env.openTabs(t, "http://a.example/page/5")

	// At the bottom, scrolling down chains into the navigate command
	require.NoError(t, env.d.ScrollPage(0, 1, "", "increment", 0))
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "/page/6", u.Path)

	require.NoError(t, env.d.ScrollPage(0, -1, "decrement", "", 0))
	u, err = env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "/page/5", u.Path)

	err = env.d.ScrollPage(0, 1, "", "sideways", 0)
	require.ErrorIs(t, err, ErrUsage)
}

func TestScrollPx(t *testing.T) {
	env := newTestEnv(t)
	tallDoc(env, t, "http://a.example")

	require.NoError(t, env.d.ScrollPx(0, 7, 2))
	require.Equal(t, 14, env.win.Current().Scroller().Pos().Y)
}
