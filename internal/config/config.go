// Package config handles the XDG configuration directory, connection
// credentials and user settings.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "vatask"

	// CredentialsFile is the stored connection credentials filename.
	CredentialsFile = "credentials.yaml"

	// SettingsFile is the user settings filename.
	SettingsFile = "settings.yaml"

	// LogFile is the default log filename.
	LogFile = "vatask.log"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are the user preferences loaded from settings.yaml.
	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads settings.yaml from it. A missing settings file yields defaults.
// If configDir is empty, uses XDG_CONFIG_HOME/vatask or $HOME/.config/vatask.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// CredentialsPath returns the path to the stored credentials file.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Dir, CredentialsFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// LogPath returns the default log file path.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCredentials checks if the credentials file exists.
func (c *Config) HasCredentials() bool {
	_, err := os.Stat(c.CredentialsPath())
	return err == nil
}

// RemoveCredentials deletes the credentials file.
func (c *Config) RemoveCredentials() error {
	return os.Remove(c.CredentialsPath())
}

// Notify reports whether success confirmations should be printed.
func (c *Config) Notify() bool {
	return !c.Quiet && c.Settings.NotificationsEnabled()
}
