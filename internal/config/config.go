package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Failure policies for articles that cannot be materialized
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

const appName = "strapisync"

// Config represents the strapisync configuration
type Config struct {
	StrapiURL    string        `yaml:"strapi_url"`
	APIToken     string        `yaml:"api_token,omitempty"`
	AssetBaseURL string        `yaml:"asset_base_url,omitempty"`
	Collection   string        `yaml:"collection"`
	OutputDir    string        `yaml:"output_dir"`
	PageSize     int           `yaml:"page_size"`
	Timeout      time.Duration `yaml:"-"` // stored as a duration string
	OnError      string        `yaml:"on_error"`
	LogFile      string        `yaml:"log_file,omitempty"`
	LogLevel     string        `yaml:"log_level"`
}

// rawConfig mirrors the file layout with the timeout as a string
type rawConfig struct {
	StrapiURL    string `yaml:"strapi_url"`
	APIToken     string `yaml:"api_token,omitempty"`
	AssetBaseURL string `yaml:"asset_base_url,omitempty"`
	Collection   string `yaml:"collection"`
	OutputDir    string `yaml:"output_dir"`
	PageSize     int    `yaml:"page_size"`
	Timeout      string `yaml:"timeout"`
	OnError      string `yaml:"on_error"`
	LogFile      string `yaml:"log_file,omitempty"`
	LogLevel     string `yaml:"log_level"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		StrapiURL:  "http://localhost:1337",
		Collection: "articles",
		OutputDir:  filepath.Join("source", "_posts"),
		PageSize:   100,
		Timeout:    30 * time.Second,
		OnError:    OnErrorAbort,
		LogLevel:   "info",
	}
}

// ConfigPath returns the path to the config file
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// ManifestPath returns the path to the manifest of the last sync
// Can be overridden for testing
var ManifestPath = func() string {
	return filepath.Join(xdg.StateHome, appName, "manifest.json")
}

// Load reads configuration from path (ConfigPath() when empty), then applies
// .env and environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// decode overlays the file contents onto c; keys absent from the file keep
// their current values
func (c *Config) decode(data []byte) error {
	raw := c.raw()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	interval, err := time.ParseDuration(raw.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout format '%s': %w", raw.Timeout, err)
	}

	c.StrapiURL = raw.StrapiURL
	c.APIToken = raw.APIToken
	c.AssetBaseURL = raw.AssetBaseURL
	c.Collection = raw.Collection
	c.OutputDir = raw.OutputDir
	c.PageSize = raw.PageSize
	c.Timeout = interval
	c.OnError = raw.OnError
	c.LogFile = raw.LogFile
	c.LogLevel = raw.LogLevel
	return nil
}

func (c *Config) raw() rawConfig {
	return rawConfig{
		StrapiURL:    c.StrapiURL,
		APIToken:     c.APIToken,
		AssetBaseURL: c.AssetBaseURL,
		Collection:   c.Collection,
		OutputDir:    c.OutputDir,
		PageSize:     c.PageSize,
		Timeout:      c.Timeout.String(),
		OnError:      c.OnError,
		LogFile:      c.LogFile,
		LogLevel:     c.LogLevel,
	}
}

// ApplyEnv overrides fields from environment variables looked up with getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("STRAPI_API_URL"); v != "" {
		c.StrapiURL = v
	}
	if v := getenv("STRAPI_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := getenv("STRAPI_ASSET_URL"); v != "" {
		c.AssetBaseURL = v
	}
	if v := getenv("STRAPISYNC_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}

// AssetURL returns the base used for relative asset URLs
func (c *Config) AssetURL() string {
	base := c.AssetBaseURL
	if base == "" {
		base = c.StrapiURL
	}
	return strings.TrimRight(base, "/")
}

// Save writes configuration to path (ConfigPath() when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.raw())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StrapiURL) == "" {
		return fmt.Errorf("strapi_url cannot be empty")
	}
	if !strings.HasPrefix(c.StrapiURL, "http://") && !strings.HasPrefix(c.StrapiURL, "https://") {
		return fmt.Errorf("strapi_url must start with http:// or https://, got '%s'", c.StrapiURL)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection cannot be empty")
	}
	if c.PageSize < 1 || c.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 1 and 1000, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	validPolicies := map[string]bool{
		OnErrorAbort: true,
		OnErrorSkip:  true,
	}
	if !validPolicies[c.OnError] {
		return fmt.Errorf("invalid on_error '%s': must be one of: abort, skip", c.OnError)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
