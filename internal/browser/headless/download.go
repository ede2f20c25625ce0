package headless

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"tabdeck/internal/browser"
	"tabdeck/internal/eventbus"
)

// DownloadManager writes pages rendered by the registry to disk.
// Headless has no network stack, so a download stores what the loader
// produces for the URL.
type DownloadManager struct {
	reg *Registry
	dir string
}

// NewDownloadManager creates a manager writing into dir
func NewDownloadManager(reg *Registry, dir string) *DownloadManager {
	return &DownloadManager{reg: reg, dir: dir}
}

func (m *DownloadManager) Get(u *url.URL, opts browser.DownloadOptions) error {
	dest := opts.Dest
	if dest == "" {
		name := opts.SuggestedName
		if name == "" {
			name = filepath.Base(u.Path)
			if name == "" || name == "/" || name == "." {
				name = u.Host
			}
		}
		dest = filepath.Join(m.dir, name)
	}

	_, doc := m.reg.load(u)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(doc.text()+"\n"), 0644); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if m.reg.bus != nil {
		m.reg.bus.Publish(eventbus.DownloadRequestedEvent{
			URL: u.String(), Dest: dest,
		})
	}
	return nil
}

// GetMHTML archives the page currently shown in the tab
func (m *DownloadManager) GetMHTML(t browser.Tab, dest string) error {
	ht, ok := t.(*Tab)
	if !ok {
		return browser.ErrUnsupported
	}
	u, err := ht.URL()
	if err != nil {
		return err
	}
	if dest == "" {
		dest = filepath.Join(m.dir, pageTitle(u)+".mhtml")
	}
	body := "Snapshot of " + u.String() + "\n\n" + ht.doc.text() + "\n"
	if err := os.WriteFile(dest, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	if m.reg.bus != nil {
		m.reg.bus.Publish(eventbus.DownloadRequestedEvent{
			URL: u.String(), Dest: dest,
		})
	}
	return nil
}
