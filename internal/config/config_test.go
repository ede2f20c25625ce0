package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	require.True(t, cfg.Tabs.Wrap)
	require.Equal(t, SelectNext, cfg.Tabs.SelectOnRemove)
	require.True(t, cfg.Search.IgnoreCase)
	require.Equal(t, 100, cfg.Zoom.Default)
	require.NotEmpty(t, cfg.Zoom.Levels)
	require.Contains(t, cfg.URL.SearchEngines, "DEFAULT")
	require.NotEmpty(t, cfg.Editor.Command)
	require.NoError(t, cfg.validate())
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	svc := NewService()
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Tabs.Wrap = false
	cfg.Tabs.SelectOnRemove = SelectLastUsed
	cfg.Zoom.Default = 125
	cfg.URL.SearchEngines["gh"] = "https://github.com/search?q={}"

	require.NoError(t, svc.SaveToPath(cfg, path))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	require.False(t, loaded.Tabs.Wrap)
	require.Equal(t, SelectLastUsed, loaded.Tabs.SelectOnRemove)
	require.Equal(t, 125, loaded.Zoom.Default)
	require.Equal(t, "https://github.com/search?q={}", loaded.URL.SearchEngines["gh"])
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	svc := NewService()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tabs]\nwrap = false\n"), 0644))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	require.False(t, loaded.Tabs.Wrap)
	// Absent keys keep their defaults
	require.Equal(t, SelectNext, loaded.Tabs.SelectOnRemove)
	require.Equal(t, 100, loaded.Zoom.Default)
}

func TestInvalidValuesRejected(t *testing.T) {
	svc := NewService()
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, os.WriteFile(path,
		[]byte("[tabs]\nselect_on_remove = \"sideways\"\n"), 0644))
	_, err := svc.LoadFromPath(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path,
		[]byte("[zoom]\ndefault = -5\n"), 0644))
	_, err = svc.LoadFromPath(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not toml {{"), 0644))
	_, err = svc.LoadFromPath(path)
	require.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	svc := NewService()
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
