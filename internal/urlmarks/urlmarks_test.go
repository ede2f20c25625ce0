package urlmarks

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestQuickmarksRoundtrip(t *testing.T) {
	q := NewQuickmarks(t.TempDir())

	require.NoError(t, q.Add("work", mustParse(t, "https://work.example/dash")))

	u, err := q.Get("work")
	require.NoError(t, err)
	require.Equal(t, "https://work.example/dash", u.String())

	// Names survive re-opening the store (persisted on disk)
	name, err := q.NameForURL(mustParse(t, "https://work.example/dash"))
	require.NoError(t, err)
	require.Equal(t, "work", name)

	require.NoError(t, q.Delete("work"))
	_, err = q.Get("work")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQuickmarksPersistAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	q1 := NewQuickmarks(dir)
	require.NoError(t, q1.Add("news", mustParse(t, "https://news.example")))

	q2 := NewQuickmarks(dir)
	u, err := q2.Get("news")
	require.NoError(t, err)
	require.Equal(t, "https://news.example", u.String())
}

func TestQuickmarksOverwriteAndValidation(t *testing.T) {
	q := NewQuickmarks(t.TempDir())

	require.NoError(t, q.Add("m", mustParse(t, "https://one.example")))
	require.NoError(t, q.Add("m", mustParse(t, "https://two.example")))
	u, err := q.Get("m")
	require.NoError(t, err)
	require.Equal(t, "https://two.example", u.String())

	require.Error(t, q.Add("", mustParse(t, "https://x.example")))
	err = q.Add("bad", &url.URL{})
	require.ErrorIs(t, err, ErrInvalidURL)

	err = q.Delete("never-existed")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = q.NameForURL(mustParse(t, "https://unknown.example"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQuickmarksKeysWithSlashes(t *testing.T) {
	q := NewQuickmarks(t.TempDir())

	// Names containing separators must not break the file layout
	require.NoError(t, q.Add("a/b c", mustParse(t, "https://x.example")))
	u, err := q.Get("a/b c")
	require.NoError(t, err)
	require.Equal(t, "https://x.example", u.String())

	all := q.All()
	require.Len(t, all, 1)
	require.Equal(t, "https://x.example", all["a/b c"])
}

func TestBookmarksAddToggle(t *testing.T) {
	b := NewBookmarks(t.TempDir())
	u := mustParse(t, "https://docs.example/guide")

	deleted, err := b.Add(u, "the guide", false)
	require.NoError(t, err)
	require.False(t, deleted)
	require.True(t, b.Has(u.String()))

	title, err := b.Title(u.String())
	require.NoError(t, err)
	require.Equal(t, "the guide", title)

	// Adding again without toggle errors
	_, err = b.Add(u, "the guide", false)
	require.ErrorIs(t, err, ErrAlreadyExists)

	// With toggle the bookmark is removed instead
	deleted, err = b.Add(u, "the guide", true)
	require.NoError(t, err)
	require.True(t, deleted)
	require.False(t, b.Has(u.String()))
}

func TestBookmarksDelete(t *testing.T) {
	b := NewBookmarks(t.TempDir())
	u := mustParse(t, "https://docs.example")

	_, err := b.Add(u, "docs", false)
	require.NoError(t, err)
	require.NoError(t, b.Delete(u.String()))

	err = b.Delete(u.String())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.Title(u.String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookmarksAll(t *testing.T) {
	b := NewBookmarks(t.TempDir())
	_, err := b.Add(mustParse(t, "https://one.example"), "one", false)
	require.NoError(t, err)
	_, err = b.Add(mustParse(t, "https://two.example"), "two", false)
	require.NoError(t, err)

	all := b.All()
	require.Len(t, all, 2)
	require.Equal(t, "one", all["https://one.example"])
	require.Equal(t, "two", all["https://two.example"])
}

func TestStoresShareOneBaseDir(t *testing.T) {
	dir := t.TempDir()
	q := NewQuickmarks(dir)
	b := NewBookmarks(dir)

	require.NoError(t, q.Add("news", mustParse(t, "https://news.example")))
	_, err := b.Add(mustParse(t, "https://blog.example"), "Blog", false)
	require.NoError(t, err)

	// Each store keeps its own subdirectory under the base dir
	for _, sub := range []string{"quickmarks", "bookmarks"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}
