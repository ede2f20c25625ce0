package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	svc      Service
	fw       *fsnotify.Watcher
	onReload func(*Config)
	quit     chan struct{}
}

// NewWatcher watches the service's config file and calls onReload with
// the freshly parsed config after each change. Parse errors keep the
// previous config and are only logged.
func NewWatcher(svc Service, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file on save, which
	// drops a watch placed on the file itself.
	if err := fw.Add(filepath.Dir(svc.Path())); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		svc:      svc,
		fw:       fw,
		onReload: onReload,
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	reload := func() {
		cfg, err := w.svc.LoadFromPath(w.svc.Path())
		if err != nil {
			log.Printf("Config reload failed: %v", err)
			return
		}
		w.onReload(cfg)
	}

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Name != w.svc.Path() {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Debounce bursts of write events from editors
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, reload)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		case <-w.quit:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.quit)
	return w.fw.Close()
}
