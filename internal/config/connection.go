package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"vatask/internal/schema"
)

// Environment variables read for the connection.
const (
	EnvSiteURL      = "SITE_URL"
	EnvTenantURL    = "TENANT_URL" // fallback for SITE_URL
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvTenantID     = "TENANT_ID"
	EnvListTitle    = "LIST_TITLE"

	// EnvRateLimit caps store requests per second. Empty or 0 is unlimited.
	EnvRateLimit = "VATASK_RATE_LIMIT"
)

// RateLimitFromEnv returns the configured request rate, 0 when unset.
func RateLimitFromEnv(getenv func(string) string) (float64, error) {
	raw := strings.TrimSpace(getenv(EnvRateLimit))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, &ConfigurationError{Err: fmt.Errorf("%s: must be a non-negative number", EnvRateLimit)}
	}
	return v, nil
}

// Connection identifies the site, the app credentials and the task list.
type Connection struct {
	SiteURL      string `yaml:"site_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	// TenantID is the realm. Empty means discover it from the site.
	TenantID  string `yaml:"tenant_id,omitempty"`
	ListTitle string `yaml:"list_title,omitempty"`
}

// ConfigurationError reports missing or invalid connection values.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	var fieldErrs criterio.FieldErrors
	if errors.As(e.Err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fe.Field+": "+fe.Err.Error())
		}
		return "configuration error: " + strings.Join(parts, ", ")
	}
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConnectionFromEnv reads the connection from environment lookups.
func ConnectionFromEnv(getenv func(string) string) Connection {
	site := getenv(EnvSiteURL)
	if site == "" {
		site = getenv(EnvTenantURL)
	}
	return Connection{
		SiteURL:      site,
		ClientID:     getenv(EnvClientID),
		ClientSecret: getenv(EnvClientSecret),
		TenantID:     getenv(EnvTenantID),
		ListTitle:    getenv(EnvListTitle),
	}
}

// Merge returns c with empty fields filled from fallback.
func (c Connection) Merge(fallback Connection) Connection {
	if c.SiteURL == "" {
		c.SiteURL = fallback.SiteURL
	}
	if c.ClientID == "" {
		c.ClientID = fallback.ClientID
	}
	if c.ClientSecret == "" {
		c.ClientSecret = fallback.ClientSecret
	}
	if c.TenantID == "" {
		c.TenantID = fallback.TenantID
	}
	if c.ListTitle == "" {
		c.ListTitle = fallback.ListTitle
	}
	return c
}

// List returns the configured list title or the default one.
func (c Connection) List() string {
	if strings.TrimSpace(c.ListTitle) == "" {
		return schema.DefaultListTitle
	}
	return c.ListTitle
}

// Validate returns a *ConfigurationError naming every missing or invalid value.
func (c Connection) Validate() error {
	err := criterio.ValidateStruct(
		criterio.Run(EnvSiteURL, c.SiteURL, siteURL),
		criterio.Run(EnvClientID, c.ClientID, required),
		criterio.Run(EnvClientSecret, c.ClientSecret, required),
	)
	if err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func siteURL(s string) error {
	if err := required(s); err != nil {
		return err
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("must be an absolute http(s) URL")
	}
	return nil
}

// LoadConnection resolves the connection: environment values win over
// credentials.yaml in the config directory. The result is validated.
func (c *Config) LoadConnection(getenv func(string) string) (Connection, error) {
	conn := ConnectionFromEnv(getenv)

	data, err := os.ReadFile(c.CredentialsPath())
	switch {
	case err == nil:
		var stored Connection
		if err := yaml.Unmarshal(data, &stored); err != nil {
			return conn, fmt.Errorf("parse %s: %w", CredentialsFile, err)
		}
		conn = conn.Merge(stored)
	case !errors.Is(err, os.ErrNotExist):
		return conn, fmt.Errorf("read %s: %w", CredentialsFile, err)
	}

	if err := conn.Validate(); err != nil {
		return conn, err
	}
	return conn, nil
}

// SaveConnection writes the connection to credentials.yaml with mode 0600.
func (c *Config) SaveConnection(conn Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(conn)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredentialsPath(), data, 0600)
}
