// Package config loads and persists the CLI's configuration under
// ~/.nyatti/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the client configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Wizard  WizardConfig  `mapstructure:"wizard"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds API connection settings.
type ServerConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// WizardConfig holds creation wizard settings.
type WizardConfig struct {
	// DebounceMS is how long the subdomain checker waits after the last
	// keystroke before calling the availability endpoint.
	DebounceMS int `mapstructure:"debounce_ms"`
	// PaymentPollMS is the interval between verification polls while a
	// checkout is open in the browser.
	PaymentPollMS int `mapstructure:"payment_poll_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file, falling back to ~/.nyatti/config.yaml
// and then to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home dir: %w", err)
		}

		configDir := filepath.Join(home, ".nyatti")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Config file is optional; defaults and env cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("NYATTI")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "https://api.nyatti.co")

	v.SetDefault("wizard.debounce_ms", 1000)
	v.SetDefault("wizard.payment_poll_ms", 3000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func writeValues(values map[string]interface{}) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home dir: %w", err)
	}

	configDir := filepath.Join(home, ".nyatti")
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configFile)

	// Merge into whatever is already saved
	_ = v.ReadInConfig()

	for key, value := range values {
		v.Set(key, value)
	}

	if err := v.WriteConfig(); err != nil {
		if err := v.SafeWriteConfig(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// SaveToken saves the session token to the config file.
func SaveToken(token string) error {
	return writeValues(map[string]interface{}{"auth.token": token})
}

// SaveServer saves the API base URL to the config file.
func SaveServer(url string) error {
	return writeValues(map[string]interface{}{"server.url": url})
}

// ClearToken removes the saved session token.
func ClearToken() error {
	return writeValues(map[string]interface{}{"auth.token": ""})
}
