package extproc

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"tabdeck/internal/eventbus"
)

// Editor runs the configured text editor on a temp file and reports the
// edited text back. Saves during the session are delivered too, so a
// long-running editor updates the target live.
type Editor struct {
	bus     eventbus.EventBus
	command []string

	file    string
	watcher *fsnotify.Watcher

	// OnText receives the file content after each save and on exit.
	// An error return means the target is gone; the text is then kept
	// in a backup file.
	OnText func(text string) error
}

// NewEditor creates an editor runner. command is the argv with {}
// standing for the file name; a command without {} gets the file name
// appended.
func NewEditor(bus eventbus.EventBus, command []string) *Editor {
	return &Editor{bus: bus, command: command}
}

// Edit writes text to a temp file and starts the editor on it. It
// returns once the editor is running; completion is reported through
// OnText and the bus.
func (e *Editor) Edit(text string) error {
	if len(e.command) == 0 {
		return fmt.Errorf("no editor configured")
	}

	f, err := os.CreateTemp("", "tabdeck-editor-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create editor file: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write editor file: %w", err)
	}
	f.Close()
	e.file = f.Name()

	args := make([]string, 0, len(e.command))
	replaced := false
	for _, a := range e.command {
		if strings.Contains(a, "{}") {
			a = strings.ReplaceAll(a, "{}", e.file)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, e.file)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		os.Remove(e.file)
		return fmt.Errorf("failed to start editor: %w", err)
	}

	e.watchFile()

	go func() {
		err := cmd.Wait()
		if e.watcher != nil {
			e.watcher.Close()
			e.watcher = nil
		}
		if err != nil {
			log.Printf("editor exited with error: %v", err)
			if e.bus != nil {
				e.bus.Publish(eventbus.ErrorEvent{
					Message: "editor exited with error", Err: err,
				})
			}
			os.Remove(e.file)
			return
		}
		e.deliver(true)
	}()
	return nil
}

// watchFile watches the temp file's directory for writes so saves made
// while the editor keeps running are picked up. Watching the directory
// survives editors that replace the file on save.
func (e *Editor) watchFile() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("editor: failed to create watcher: %v", err)
		return
	}
	if err := w.Add(filepath.Dir(e.file)); err != nil {
		log.Printf("editor: failed to watch %s: %v", e.file, err)
		w.Close()
		return
	}
	e.watcher = w

	go func() {
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != e.file {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Debounce bursts of events from one save
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(100*time.Millisecond, func() {
					e.deliver(false)
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("editor: watch error: %v", err)
			}
		}
	}()
}

// deliver reads the file and hands the text to OnText. final cleans up
// the temp file afterwards.
func (e *Editor) deliver(final bool) {
	data, err := os.ReadFile(e.file)
	if err != nil {
		log.Printf("editor: failed to read %s: %v", e.file, err)
		return
	}
	text := string(data)

	if e.OnText != nil {
		if err := e.OnText(text); err != nil {
			e.backup(text, err)
			return
		}
	}
	if e.bus != nil && final {
		e.bus.Publish(eventbus.EditorFinishedEvent{Text: text})
	}
	if final {
		os.Remove(e.file)
	}
}

// backup keeps the edited text when the target can no longer take it
func (e *Editor) backup(text string, cause error) {
	f, err := os.CreateTemp("", "tabdeck-editor-backup-*.txt")
	if err != nil {
		log.Printf("editor: failed to create backup: %v", err)
		return
	}
	f.WriteString(text)
	f.Close()
	log.Printf("editor: target gone (%v), text saved to %s", cause, f.Name())
	if e.bus != nil {
		e.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("edited element vanished, text saved to %s", f.Name()),
			Err:     cause,
		})
	}
}
