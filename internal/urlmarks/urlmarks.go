// Package urlmarks persists quickmarks (name to URL shortcuts) and
// bookmarks (URL to title) on disk.
package urlmarks

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

var (
	// ErrNotFound is returned when a mark does not exist
	ErrNotFound = errors.New("mark not found")
	// ErrAlreadyExists is returned when adding a mark that exists
	ErrAlreadyExists = errors.New("mark already exists")
	// ErrInvalidURL is returned for URLs that cannot be stored
	ErrInvalidURL = errors.New("invalid URL")
)

// newStore opens a flat diskv store under dir. Keys are names or URLs
// and may contain path separators, so file names are base64-encoded.
func newStore(dir string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath: dir,
		AdvancedTransform: func(key string) *diskv.PathKey {
			return &diskv.PathKey{
				FileName: base64.RawURLEncoding.EncodeToString([]byte(key)),
			}
		},
		InverseTransform: func(pk *diskv.PathKey) string {
			raw, err := base64.RawURLEncoding.DecodeString(pk.FileName)
			if err != nil {
				return ""
			}
			return string(raw)
		},
		CacheSizeMax: 1024 * 1024, // 1MB
	})
}

// checkURL validates that a URL is storable
func checkURL(u *url.URL) error {
	if u == nil || u.String() == "" || u.Scheme == "" {
		return fmt.Errorf("%w: %v", ErrInvalidURL, u)
	}
	return nil
}

// Quickmarks maps user-chosen names to URLs
type Quickmarks struct {
	d *diskv.Diskv
}

// NewQuickmarks opens the quickmark store under baseDir
func NewQuickmarks(baseDir string) *Quickmarks {
	return &Quickmarks{d: newStore(filepath.Join(baseDir, "quickmarks"))}
}

// Add stores a quickmark, silently overwriting an existing name
func (q *Quickmarks) Add(name string, u *url.URL) error {
	if name == "" {
		return fmt.Errorf("quickmark name must not be empty")
	}
	if err := checkURL(u); err != nil {
		return err
	}
	return q.d.Write(name, []byte(u.String()))
}

// Get resolves a quickmark name to its URL
func (q *Quickmarks) Get(name string) (*url.URL, error) {
	raw, err := q.d.Read(name)
	if err != nil {
		return nil, fmt.Errorf("%w: quickmark %q", ErrNotFound, name)
	}
	u, err := url.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: quickmark %q points to %q", ErrInvalidURL, name, raw)
	}
	return u, nil
}

// NameForURL finds the name a URL was saved under
func (q *Quickmarks) NameForURL(u *url.URL) (string, error) {
	target := u.String()
	for key := range q.d.Keys(nil) {
		raw, err := q.d.Read(key)
		if err != nil {
			continue
		}
		if string(raw) == target {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: no quickmark for %s", ErrNotFound, target)
}

// Delete removes a quickmark by name
func (q *Quickmarks) Delete(name string) error {
	if !q.d.Has(name) {
		return fmt.Errorf("%w: quickmark %q", ErrNotFound, name)
	}
	return q.d.Erase(name)
}

// All returns every quickmark as name -> URL
func (q *Quickmarks) All() map[string]string {
	out := map[string]string{}
	for key := range q.d.Keys(nil) {
		raw, err := q.d.Read(key)
		if err != nil {
			continue
		}
		out[key] = string(raw)
	}
	return out
}

// Bookmarks maps URLs to page titles
type Bookmarks struct {
	d *diskv.Diskv
}

// NewBookmarks opens the bookmark store under baseDir
func NewBookmarks(baseDir string) *Bookmarks {
	return &Bookmarks{d: newStore(filepath.Join(baseDir, "bookmarks"))}
}

// Add stores a bookmark. With toggle set, an existing bookmark is
// removed instead; the returned flag reports the removal.
func (b *Bookmarks) Add(u *url.URL, title string, toggle bool) (deleted bool, err error) {
	if err := checkURL(u); err != nil {
		return false, err
	}
	key := u.String()
	if b.d.Has(key) {
		if toggle {
			return true, b.d.Erase(key)
		}
		return false, fmt.Errorf("%w: bookmark for %s", ErrAlreadyExists, key)
	}
	return false, b.d.Write(key, []byte(title))
}

// Title returns the stored title for a URL
func (b *Bookmarks) Title(urlStr string) (string, error) {
	raw, err := b.d.Read(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: bookmark for %s", ErrNotFound, urlStr)
	}
	return string(raw), nil
}

// Has reports whether the URL is bookmarked
func (b *Bookmarks) Has(urlStr string) bool {
	return b.d.Has(urlStr)
}

// Delete removes a bookmark by URL
func (b *Bookmarks) Delete(urlStr string) error {
	if !b.d.Has(urlStr) {
		return fmt.Errorf("%w: bookmark for %s", ErrNotFound, urlStr)
	}
	return b.d.Erase(urlStr)
}

// All returns every bookmark as URL -> title
func (b *Bookmarks) All() map[string]string {
	out := map[string]string{}
	for key := range b.d.Keys(nil) {
		raw, err := b.d.Read(key)
		if err != nil {
			continue
		}
		out[key] = string(raw)
	}
	return out
}
