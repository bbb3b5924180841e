package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults tests loading configuration with defaults
func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://api.nyatti.co", cfg.Server.URL)
	assert.Empty(t, cfg.Auth.Token)
	assert.Equal(t, 1000, cfg.Wizard.DebounceMS)
	assert.Equal(t, 3000, cfg.Wizard.PaymentPollMS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

// TestLoadFromFile tests loading configuration from a file
func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  url: "http://localhost:4040"

auth:
  token: "nyatti_test123456"

wizard:
  debounce_ms: 250

logging:
  level: "debug"
  format: "json"
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:4040", cfg.Server.URL)
	assert.Equal(t, "nyatti_test123456", cfg.Auth.Token)
	assert.Equal(t, 250, cfg.Wizard.DebounceMS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Defaults for unspecified values
	assert.Equal(t, 3000, cfg.Wizard.PaymentPollMS)
}

// TestLoadInvalidConfigFile tests loading from an invalid config file
func TestLoadInvalidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(configFile, []byte("this is not valid yaml: [\n"), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
}

// TestSaveToken tests saving the session token
func TestSaveToken(t *testing.T) {
	tmpDir := t.TempDir()

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	err := SaveToken("nyatti_newsavedtoken")
	require.NoError(t, err)

	configFile := filepath.Join(tmpDir, ".nyatti", "config.yaml")
	assert.FileExists(t, configFile)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "nyatti_newsavedtoken", cfg.Auth.Token)
}

// TestSaveTokenMultipleTimes tests that the latest token wins
func TestSaveTokenMultipleTimes(t *testing.T) {
	tmpDir := t.TempDir()

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	require.NoError(t, SaveToken("nyatti_first"))
	require.NoError(t, SaveToken("nyatti_second"))

	configFile := filepath.Join(tmpDir, ".nyatti", "config.yaml")
	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "nyatti_second", cfg.Auth.Token)
}

// TestClearToken tests logging out
func TestClearToken(t *testing.T) {
	tmpDir := t.TempDir()

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	require.NoError(t, SaveToken("nyatti_session"))
	require.NoError(t, ClearToken())

	configFile := filepath.Join(tmpDir, ".nyatti", "config.yaml")
	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.Token)
}

// TestConfigPersistence tests that config changes persist together
func TestConfigPersistence(t *testing.T) {
	tmpDir := t.TempDir()

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	require.NoError(t, SaveToken("nyatti_persist"))
	require.NoError(t, SaveServer("http://localhost:9090"))

	configFile := filepath.Join(tmpDir, ".nyatti", "config.yaml")
	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "nyatti_persist", cfg.Auth.Token)
	assert.Equal(t, "http://localhost:9090", cfg.Server.URL)
}
