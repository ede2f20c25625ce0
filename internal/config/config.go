package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"tabdeck/internal/eventbus"
)

// SelectOnRemove determines which neighbor becomes active after a close
type SelectOnRemove string

const (
	SelectPrev     SelectOnRemove = "prev"
	SelectNext     SelectOnRemove = "next"
	SelectLastUsed SelectOnRemove = "last-used"
)

// Config represents the application configuration
type Config struct {
	Version int          `toml:"version"`
	Tabs    TabSettings  `toml:"tabs"`
	Search  SearchConfig `toml:"search"`
	Zoom    ZoomConfig   `toml:"zoom"`
	URL     URLConfig    `toml:"url"`
	Editor  EditorConfig `toml:"editor"`
	Input   InputConfig  `toml:"input"`
}

// TabSettings holds tab-related configuration
type TabSettings struct {
	Wrap           bool           `toml:"wrap"`
	SelectOnRemove SelectOnRemove `toml:"select_on_remove"`
	TabsAreWindows bool           `toml:"tabs_are_windows"`
}

// SearchConfig holds page-search configuration
type SearchConfig struct {
	IgnoreCase bool `toml:"ignore_case"`
}

// ZoomConfig holds zoom configuration
type ZoomConfig struct {
	Default int   `toml:"default"` // percent
	Levels  []int `toml:"levels"`  // percent, ascending
}

// URLConfig holds URL handling configuration
type URLConfig struct {
	DefaultPage           string            `toml:"default_page"`
	StartPages            []string          `toml:"start_pages"`
	SearchEngines         map[string]string `toml:"search_engines"` // name -> template with {}
	YankIgnoredParameters []string          `toml:"yank_ignored_parameters"`
	IncdecSegments        []string          `toml:"incdec_segments"` // subset of host, port, path, query, anchor
}

// EditorConfig holds external editor configuration
type EditorConfig struct {
	Command []string `toml:"command"` // argv with {} replaced by the file name
}

// InputConfig holds key input configuration
type InputConfig struct {
	PartialTimeoutMs int `toml:"partial_timeout_ms"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// service is the concrete implementation
type service struct {
	bus      eventbus.EventBus
	filePath string
}

// NewService creates a new config service
func NewService() Service {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	tabdeckDir := filepath.Join(configDir, "tabdeck")
	os.MkdirAll(tabdeckDir, 0755)

	return &service{
		filePath: filepath.Join(tabdeckDir, "config.toml"),
	}
}

// NewServiceWithBus creates a config service with event bus support
func NewServiceWithBus(bus eventbus.EventBus) Service {
	s := NewService().(*service)
	s.bus = bus
	return s
}

// Path returns the config file path in use
func (s *service) Path() string {
	return s.filePath
}

// Load loads the configuration from file
func (s *service) Load() (*Config, error) {
	// Return default config if file doesn't exist
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		cfg := Default()
		if s.bus != nil {
			s.bus.Publish(eventbus.ConfigLoadedEvent{Path: s.filePath})
		}
		return cfg, nil
	}

	cfg, err := s.LoadFromPath(s.filePath)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigLoadedEvent{Path: s.filePath})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (s *service) Save(config *Config) error {
	if err := s.SaveToPath(config, s.filePath); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so absent keys keep their documented values
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (s *service) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Tabs.SelectOnRemove {
	case SelectPrev, SelectNext, SelectLastUsed:
	default:
		return fmt.Errorf("invalid tabs.select_on_remove value %q", c.Tabs.SelectOnRemove)
	}
	if c.Zoom.Default <= 0 {
		return fmt.Errorf("zoom.default must be positive, got %d", c.Zoom.Default)
	}
	return nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Version: 1,
		Tabs: TabSettings{
			Wrap:           true,
			SelectOnRemove: SelectNext,
		},
		Search: SearchConfig{
			IgnoreCase: true,
		},
		Zoom: ZoomConfig{
			Default: 100,
			Levels: []int{25, 33, 50, 67, 75, 90, 100,
				110, 125, 150, 175, 200, 250, 300, 400, 500},
		},
		URL: URLConfig{
			DefaultPage: "tabdeck://start",
			StartPages:  []string{"tabdeck://start"},
			SearchEngines: map[string]string{
				"DEFAULT": "https://duckduckgo.com/?q={}",
			},
			YankIgnoredParameters: []string{
				"ref", "utm_source", "utm_medium", "utm_campaign",
				"utm_term", "utm_content",
			},
			IncdecSegments: []string{"path", "query"},
		},
		Editor: EditorConfig{
			Command: []string{"vi", "{}"},
		},
		Input: InputConfig{
			PartialTimeoutMs: 5000,
		},
	}
}
