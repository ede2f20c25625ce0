package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"tabdeck/internal/browser"
	"tabdeck/internal/browser/headless"
	"tabdeck/internal/config"
	"tabdeck/internal/dispatcher"
	"tabdeck/internal/eventbus"
	"tabdeck/internal/extproc"
	"tabdeck/internal/ui"
	"tabdeck/internal/urlmarks"
	"tabdeck/internal/urlutil"
)

func main() {
	var private bool
	flag.BoolVar(&private, "private", false, "Start in a private window")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("tabdeck.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create event bus
	bus := eventbus.New()

	// Load configuration, falling back to defaults when no file exists
	configSvc := config.NewServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Reload the config when the file changes on disk
	watcher, err := config.NewWatcher(configSvc, func(newCfg *config.Config) {
		*cfg = *newCfg
		log.Printf("Config reloaded from %s", configSvc.Path())
	})
	if err != nil {
		log.Printf("Config watcher disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	dataDir := dataDir()

	// Backend: the headless registry with one window
	registry := headless.NewRegistry(cfg, bus)
	win := registry.NewWindow(private)

	// The constructors add their own subdirectory under the base dir
	quickmarks := urlmarks.NewQuickmarks(dataDir)
	bookmarks := urlmarks.NewBookmarks(dataDir)
	downloads := headless.NewDownloadManager(registry, downloadDir())
	launcher := extproc.NewLauncher(bus, filepath.Join(dataDir, "userscripts"))

	disp := dispatcher.New(dispatcher.Deps{
		WindowID:   win.WindowID(),
		Window:     win,
		Registry:   registry,
		Config:     cfg,
		Quickmarks: quickmarks,
		Bookmarks:  bookmarks,
		Downloads:  downloads,
		Launcher:   launcher,
		Bus:        bus,
	})

	openStartPages(win, cfg, flag.Args())

	model := ui.NewModel(bus, cfg, disp, registry)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ui.ForwardEvents(bus, p)

	bus.Publish(eventbus.AppReadyEvent{})

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// openStartPages opens the command line URLs, or the configured start
// pages when none were given
func openStartPages(win browser.Container, cfg *config.Config, args []string) {
	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.URL.StartPages
	}
	for _, in := range inputs {
		u, err := urlutil.FuzzyURL(in, urlutil.Options{
			SearchEngines: cfg.URL.SearchEngines,
		})
		if err != nil {
			log.Printf("Skipping %q: %v", in, err)
			continue
		}
		win.Open(u, win.Count() > 0, false)
	}
	if win.Count() == 0 {
		if u, err := url.Parse(cfg.URL.DefaultPage); err == nil {
			win.Open(u, false, false)
		}
	}
}

func dataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	dir := filepath.Join(base, "tabdeck")
	os.MkdirAll(dir, 0755)
	return dir
}

func downloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, "Downloads")
}
