package dispatcher

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
)

// proseDoc installs a small prose page with a link in it
func proseDoc(env *testEnv, t *testing.T) {
	t.Helper()
	env.reg.Loader = func(u *url.URL) (string, *headless.Document) {
		return u.Host, headless.NewDocument([]string{
			"first paragraph line one",
			"first paragraph line two",
			"",
			"second paragraph with b.example/link inside",
			"",
			"third paragraph",
		})
	}
	env.openTabs(t, "http://a.example")
}

func TestCaretSelection(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	require.NoError(t, env.d.ToggleSelection())
	require.NoError(t, env.d.MoveToNextWord(2))

	var sel string
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Equal(t, "first paragraph ", sel)

	// Dropping collapses but keeps selecting
	require.NoError(t, env.d.DropSelection())
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Empty(t, sel)
}

func TestCaretBlockMovement(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	// Jump to the start of the second paragraph and select its first word
	require.NoError(t, env.d.MoveToStartOfNextBlock(1))
	require.NoError(t, env.d.ToggleSelection())
	require.NoError(t, env.d.MoveToNextWord(1))

	var sel string
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Equal(t, "second ", sel)
}

func TestYankSelection(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	require.NoError(t, env.d.ToggleSelection())
	require.NoError(t, env.d.MoveToEndOfLine())
	require.NoError(t, env.d.Yank("selection", false, false))
	require.Equal(t, "first paragraph line one", env.clip.text)

	// The selection was dropped after the yank
	var sel string
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Empty(t, sel)
}

func TestFollowSelected(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	// Select the link text on the fourth line
	require.NoError(t, env.d.MoveToStartOfNextBlock(1))
	require.NoError(t, env.d.MoveToNextWord(3))
	require.NoError(t, env.d.ToggleSelection())
	require.NoError(t, env.d.MoveToNextWord(1))

	var sel string
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Contains(t, sel, "b.example/link")

	require.NoError(t, env.d.FollowSelected(true))
	require.Equal(t, 2, env.win.Count())
	u, err := env.win.Current().URL()
	require.NoError(t, err)
	require.Equal(t, "b.example", u.Host)
}

func TestFollowSelectedWithoutSelection(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	err := env.d.FollowSelected(false)
	require.ErrorIs(t, err, browser.ErrNoSelection)
}

func TestCaretDocumentEnds(t *testing.T) {
	env := newTestEnv(t)
	proseDoc(env, t)

	require.NoError(t, env.d.MoveToEndOfDocument())
	require.NoError(t, env.d.ToggleSelection())
	require.NoError(t, env.d.MoveToEndOfLine())

	var sel string
	env.win.Current().Caret().Selection(func(text string) { sel = text })
	require.Equal(t, "third paragraph", sel)

	require.NoError(t, env.d.MoveToStartOfDocument())
}
