package dispatcher

import (
	"errors"
	"fmt"
	"net/url"
	"unicode/utf8"

	"tabdeck/internal/urlmarks"
)

// SetMark stores the current scroll position under a single-character
// key. A capital key makes the mark global across windows.
func (d *Dispatcher) SetMark(key string) error {
	r, err := markKey(key)
	if err != nil {
		return err
	}
	return wrapErr(d.win.SetMark(r))
}

// JumpMark jumps to the mark stored under key
func (d *Dispatcher) JumpMark(key string) error {
	r, err := markKey(key)
	if err != nil {
		return err
	}
	if err := d.win.JumpMark(r); err != nil {
		return wrapErr(err)
	}
	return nil
}

func markKey(key string) (rune, error) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, cmdErr(ErrUsage, "mark must be a single character, got %q", key)
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r, nil
}

// QuickmarkSave saves the current page under a given name
func (d *Dispatcher) QuickmarkSave(name string) error {
	t, err := d.currentTab()
	if err != nil {
		return err
	}
	u, err := t.URL()
	if err != nil {
		return wrapErr(err)
	}
	if err := d.quickmarks.Add(name, u); err != nil {
		return wrapErr(err)
	}
	d.msg.Info(fmt.Sprintf("Quickmark %q saved", name))
	return nil
}

// QuickmarkLoad opens the URL saved under name
func (d *Dispatcher) QuickmarkLoad(name string, tab, bg, window bool) error {
	u, err := d.quickmarks.Get(name)
	if err != nil {
		return wrapErr(err)
	}
	return d.open(u, tab, bg, window, false, false)
}

// QuickmarkDel deletes a quickmark. Without a name the current page's
// quickmark is looked up and removed.
func (d *Dispatcher) QuickmarkDel(name string) error {
	if name == "" {
		t, err := d.currentTab()
		if err != nil {
			return err
		}
		u, err := t.URL()
		if err != nil {
			return wrapErr(err)
		}
		name, err = d.quickmarks.NameForURL(u)
		if err != nil {
			return wrapErr(err)
		}
	}
	return wrapErr(d.quickmarks.Delete(name))
}

// BookmarkAdd bookmarks a page: the given URL with the given title, or
// the current page. toggle removes an existing bookmark instead of
// failing on it.
func (d *Dispatcher) BookmarkAdd(urlStr, title string, toggle bool) error {
	if urlStr != "" && title == "" {
		return cmdErr(ErrUsage, "title must be given when a URL is given")
	}

	u, err := d.bookmarkURL(urlStr)
	if err != nil {
		return err
	}
	if title == "" {
		t, _ := d.currentTab()
		if t != nil {
			title = t.Title()
		}
	}

	deleted, err := d.bookmarks.Add(u, title, toggle)
	if err != nil {
		if errors.Is(err, urlmarks.ErrAlreadyExists) {
			return cmdErr(ErrUsage, "bookmark already exists")
		}
		return wrapErr(err)
	}
	if deleted {
		d.msg.Info(fmt.Sprintf("Removed bookmark %s", u))
	} else {
		d.msg.Info(fmt.Sprintf("Bookmarked %s", u))
	}
	return nil
}

// BookmarkLoad opens a bookmarked URL, deleting the bookmark afterwards
// when delete is set
func (d *Dispatcher) BookmarkLoad(urlStr string, tab, bg, window, delete bool) error {
	if !d.bookmarks.Has(urlStr) {
		return cmdErr(ErrUsage, "bookmark %q does not exist", urlStr)
	}
	u, err := d.bookmarkURL(urlStr)
	if err != nil {
		return err
	}
	if err := d.open(u, tab, bg, window, false, false); err != nil {
		return err
	}
	if delete {
		return wrapErr(d.bookmarks.Delete(urlStr))
	}
	return nil
}

// BookmarkDel deletes a bookmark. Without a URL the current page's
// bookmark is removed.
func (d *Dispatcher) BookmarkDel(urlStr string) error {
	if urlStr == "" {
		t, err := d.currentTab()
		if err != nil {
			return err
		}
		u, err := t.URL()
		if err != nil {
			return wrapErr(err)
		}
		urlStr = u.String()
	}
	return wrapErr(d.bookmarks.Delete(urlStr))
}

// bookmarkURL resolves urlStr, or the current page when empty
func (d *Dispatcher) bookmarkURL(urlStr string) (*url.URL, error) {
	if urlStr == "" {
		t, err := d.currentTab()
		if err != nil {
			return nil, err
		}
		u, err := t.URL()
		if err != nil {
			return nil, wrapErr(err)
		}
		return u, nil
	}
	u, err := url.Parse(urlStr)
	if err != nil || u.Scheme == "" {
		return nil, cmdErr(ErrUsage, "invalid URL %q", urlStr)
	}
	return u, nil
}
