package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetup_Levels tests logger setup with each configured level.
func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := Setup(Config{Level: tt.level, Format: "json", Output: "stdout"})
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

// TestSetup_InvalidLevelDefaultsToInfo tests fallback for unknown levels.
func TestSetup_InvalidLevelDefaultsToInfo(t *testing.T) {
	err := Setup(Config{Level: "not-a-level", Format: "json", Output: "stdout"})
	assert.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

// TestSetup_FileOutput tests logging to a file.
func TestSetup_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	err := Setup(Config{
		Level:  "info",
		Format: "json",
		Output: "file",
		File:   logFile,
	})
	require.NoError(t, err)

	InfoEvent().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

// TestSetup_StderrOutput tests that stderr output lands on stderr, not stdout.
func TestSetup_StderrOutput(t *testing.T) {
	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	require.NoError(t, Setup(Config{Level: "info", Format: "json", Output: "stderr"}))
	InfoEvent().Msg("diverted")

	require.NoError(t, w.Close())
	os.Stderr = orig

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "diverted")
}

// TestGet returns the configured global logger.
func TestGet(t *testing.T) {
	require.NoError(t, Setup(Config{Level: "info", Format: "json", Output: "stdout"}))
	assert.NotNil(t, Get())
}

// TestWithField attaches a field to a derived logger.
func TestWithField(t *testing.T) {
	require.NoError(t, Setup(Config{Level: "info", Format: "json", Output: "stdout"}))
	l := WithField("site_id", "abc123")
	assert.NotNil(t, l)
}
