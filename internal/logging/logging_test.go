package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewFansOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rapidread.log")
	var stderr bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", File: path, Stderr: &stderr})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("saved session discarded", "error", "bad json")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved session discarded")
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, stderr.String(), "bad json")
}

func TestNewWithoutDestinations(t *testing.T) {
	logger, closeFn, err := New(Options{})
	require.NoError(t, err)
	logger.Error("dropped")
	assert.NoError(t, closeFn())
}
