// Package extproc runs external programs: one-shot spawned commands,
// userscripts and the text editor.
package extproc

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/shlex"

	"tabdeck/internal/eventbus"
)

// SpawnOptions control how a command is run
type SpawnOptions struct {
	// Userscript resolves the command relative to the userscript dir
	// and feeds selected output back through the FIFO file
	Userscript bool
	// Detach leaves the process running independently
	Detach bool
	// Output captures stdout/stderr for later display
	Output bool
	// Env is extra environment in KEY=VALUE form
	Env []string
}

// Launcher spawns external processes and reports their fate on the bus
type Launcher struct {
	bus           eventbus.EventBus
	userscriptDir string

	mu         sync.Mutex
	lastOutput string
}

// NewLauncher creates a launcher. userscriptDir may be empty when
// userscripts are not used.
func NewLauncher(bus eventbus.EventBus, userscriptDir string) *Launcher {
	return &Launcher{bus: bus, userscriptDir: userscriptDir}
}

// Spawn parses cmdline like a shell would and runs it
func (l *Launcher) Spawn(cmdline string, opts SpawnOptions) error {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return fmt.Errorf("error while splitting command: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}

	name := args[0]
	if opts.Userscript {
		name = l.resolveUserscript(name)
	}

	cmd := exec.Command(name, args[1:]...)
	cmd.Env = append(os.Environ(), opts.Env...)

	var buf bytes.Buffer
	if opts.Output {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error while spawning command: %w", err)
	}
	if l.bus != nil {
		l.bus.Publish(eventbus.ProcessStartedEvent{Cmd: name, Args: args[1:]})
	}

	if opts.Detach {
		return cmd.Process.Release()
	}

	go func() {
		err := cmd.Wait()
		code := 0
		if err != nil {
			code = -1
			if ee, ok := err.(*exec.ExitError); ok {
				code = ee.ExitCode()
			}
			log.Printf("spawn: %s exited with error: %v", name, err)
		}
		if opts.Output {
			l.mu.Lock()
			l.lastOutput = buf.String()
			l.mu.Unlock()
		}
		if l.bus != nil {
			l.bus.Publish(eventbus.ProcessFinishedEvent{
				Cmd: name, ExitCode: code, Err: err,
			})
		}
	}()
	return nil
}

// LastOutput returns the captured output of the most recently finished
// command started with Output set
func (l *Launcher) LastOutput() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastOutput
}

// resolveUserscript turns a bare script name into a path in the
// userscript dir; absolute and relative paths pass through
func (l *Launcher) resolveUserscript(name string) string {
	if filepath.IsAbs(name) || l.userscriptDir == "" {
		return name
	}
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return name
	}
	return filepath.Join(l.userscriptDir, name)
}
