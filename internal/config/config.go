// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docterm.
//
// Configuration lives in TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docterm/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docterm configuration.
type Config struct {
	Version string `toml:"version"`

	// Server configuration
	Server ServerConfig `toml:"server"`

	// Upload configuration
	Upload UploadConfig `toml:"upload"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	// URL is the backend API origin, e.g. "https://api.docterm.example".
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout for JSON calls.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the attempt count for idempotent reads.
	MaxRetries int `toml:"max_retries"`
}

// UploadConfig holds upload pipeline settings.
type UploadConfig struct {
	// InboxDir, when set, is watched for dropped files to admit
	// automatically. Empty disables the watcher.
	InboxDir string `toml:"inbox_dir"`
	// HistoryEnabled records batch outcomes to the local history database.
	HistoryEnabled bool `toml:"history_enabled"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme selects the color palette: "dark" or "light".
	Theme string `toml:"theme"`
	// StreamReplay animates assistant answers. Disabling shows answers
	// immediately in full.
	StreamReplay bool `toml:"stream_replay"`
	// ChatCache keeps local copies of confirmed conversations so listings
	// render before the backend answers.
	ChatCache bool `toml:"chat_cache"`
	// CompactMode reduces chrome in listings.
	CompactMode bool `toml:"compact_mode"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8080",
			TimeoutSecs: 60,
			MaxRetries:  3,
		},
		Upload: UploadConfig{
			InboxDir:       "",
			HistoryEnabled: true,
		},
		UI: UIConfig{
			Theme:        "dark",
			StreamReplay: true,
			ChatCache:    true,
			CompactMode:  false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docterm configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docterm"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions tightens config file perms to 0600. Warn-only
// failures are the caller's choice; the token is not stored here but the
// file may still carry a private server URL.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a TOML file into cfg.
func LoadFile(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save writes the configuration to the default config path with 0600 perms.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes the configuration to path.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# docterm configuration file")
	fmt.Fprintln(file, "# Generated by docterm - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies DOCTERM_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if serverURL := os.Getenv("DOCTERM_SERVER_URL"); serverURL != "" {
		c.Server.URL = serverURL
	}
	if timeout := os.Getenv("DOCTERM_TIMEOUT_SECS"); timeout != "" {
		if n, err := strconv.Atoi(timeout); err == nil {
			c.Server.TimeoutSecs = n
		}
	}
	if inbox := os.Getenv("DOCTERM_INBOX_DIR"); inbox != "" {
		c.Upload.InboxDir = inbox
	}
	if theme := os.Getenv("DOCTERM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if replay := os.Getenv("DOCTERM_STREAM_REPLAY"); replay != "" {
		c.UI.StreamReplay = replay == "1" || strings.ToLower(replay) == "true"
	}
}

// SetDefaults fills zero-valued fields a partial config file left out.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if c.Server.MaxRetries == 0 {
		c.Server.MaxRetries = d.Server.MaxRetries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("must be an http(s) URL, got %q", c.Server.URL),
			})
		}
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Server.TimeoutSecs),
		})
	}

	if c.Server.MaxRetries < 1 || c.Server.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "server.max_retries",
			Message: fmt.Sprintf("must be 1-10, got %d", c.Server.MaxRetries),
		})
	}

	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be 'dark' or 'light', got %q", c.UI.Theme),
		})
	}

	if c.Upload.InboxDir != "" {
		if info, err := os.Stat(c.Upload.InboxDir); err == nil && !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "upload.inbox_dir",
				Message: "must be a directory",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
