package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Settings bounds.
const (
	MinItemsPerPage    = 1
	MaxItemsPerPage    = 100
	MinRefreshInterval = 5
	MaxRefreshInterval = 300

	defaultItemsPerPage    = 10
	defaultRefreshInterval = 30
)

// Settings are user display preferences.
type Settings struct {
	ItemsPerPage int `yaml:"items_per_page"`
	// EnableNotifications controls success confirmations. nil means enabled.
	EnableNotifications *bool `yaml:"enable_notifications,omitempty"`
	AutoRefresh         bool  `yaml:"auto_refresh"`
	// RefreshInterval is in seconds.
	RefreshInterval int `yaml:"refresh_interval"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		ItemsPerPage:    defaultItemsPerPage,
		RefreshInterval: defaultRefreshInterval,
	}
}

// LoadSettings reads settings from path. A missing file returns defaults;
// fields absent from the file keep their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to path, creating its directory.
func (s Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the numeric ranges.
func (s Settings) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if err := between(s.ItemsPerPage, MinItemsPerPage, MaxItemsPerPage); err != nil {
		errs = errs.Append("items_per_page", err)
	}
	if err := between(s.RefreshInterval, MinRefreshInterval, MaxRefreshInterval); err != nil {
		errs = errs.Append("refresh_interval", err)
	}
	return errs.ToError()
}

func between(v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return nil
}

// NotificationsEnabled reports whether success confirmations are shown.
func (s Settings) NotificationsEnabled() bool {
	return s.EnableNotifications == nil || *s.EnableNotifications
}

// PageSize returns ItemsPerPage, falling back to the default when unset.
func (s Settings) PageSize() int {
	if s.ItemsPerPage < MinItemsPerPage {
		return defaultItemsPerPage
	}
	return s.ItemsPerPage
}

// Interval returns the auto-refresh period, falling back to the default when unset.
func (s Settings) Interval() time.Duration {
	if s.RefreshInterval < MinRefreshInterval {
		return defaultRefreshInterval * time.Second
	}
	return time.Duration(s.RefreshInterval) * time.Second
}
