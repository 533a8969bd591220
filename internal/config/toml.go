// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Reader  ReaderConfig  `toml:"reader"`
	Storage StorageConfig `toml:"storage"`
	Fetch   FetchConfig   `toml:"fetch"`
	Log     LogConfig     `toml:"log"`
}

// ReaderConfig maps playback settings.
type ReaderConfig struct {
	WPM            *int `toml:"wpm"`
	SaveIntervalMs *int `toml:"save-interval-ms"`
}

// StorageConfig selects where the session slot lives.
type StorageConfig struct {
	Backend *string `toml:"backend"`
	Path    *string `toml:"path"`
}

// FetchConfig maps URL and file loading limits.
type FetchConfig struct {
	TimeoutSeconds *int    `toml:"timeout-seconds"`
	MaxBytes       *int64  `toml:"max-bytes"`
	UserAgent      *string `toml:"user-agent"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
