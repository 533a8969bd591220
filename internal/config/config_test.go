package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Reader.WPM)
	assert.Nil(t, cfg.Storage.Backend)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[reader]
wpm = 600
save-interval-ms = 250

[storage]
backend = "badger"

[fetch]
timeout-seconds = 5
max-bytes = 1048576

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Reader.WPM)
	assert.Equal(t, 600, *cfg.Reader.WPM)
	assert.Equal(t, 250, *cfg.Reader.SaveIntervalMs)
	assert.Equal(t, "badger", *cfg.Storage.Backend)
	assert.Nil(t, cfg.Storage.Path)
	assert.Equal(t, 5, *cfg.Fetch.TimeoutSeconds)
	assert.Equal(t, int64(1048576), *cfg.Fetch.MaxBytes)
	assert.Nil(t, cfg.Fetch.UserAgent)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[reader]\nspeed = 3\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader.speed")
}

func TestLoadConfigInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[reader\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "cfg", "rapidread", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "rapidread", "rapidread.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "data", "rapidread", "badger"), DefaultBadgerDir())
	assert.Equal(t, filepath.Join(dir, "state", "rapidread", "rapidread.log"), DefaultLogPath())
}
