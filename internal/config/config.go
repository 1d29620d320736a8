// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete kivama configuration.
type Config struct {
	// Model is the Ollama model every request is sent to
	Model string `toml:"model" yaml:"model"`

	// Local (Ollama) configuration
	Local LocalConfig `toml:"local" yaml:"local"`

	// UI configuration
	UI UIConfig `toml:"ui" yaml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" yaml:"log"`
}

// LocalConfig contains local Ollama configuration.
type LocalConfig struct {
	// OllamaURL is the URL of the Ollama server
	OllamaURL string `toml:"ollama_url" yaml:"ollama_url"`
	// TimeoutSecs bounds non-streaming requests (status, model list)
	TimeoutSecs int `toml:"timeout_secs" yaml:"timeout_secs"`
}

// UIConfig contains user interface preferences.
type UIConfig struct {
	// Title is shown in the header
	Title string `toml:"title" yaml:"title"`
	// Theme is "dark" or "light"
	Theme string `toml:"theme" yaml:"theme"`
	// TickIntervalMs is the redraw cadence; one reply fragment is drawn per tick
	TickIntervalMs int `toml:"tick_interval_ms" yaml:"tick_interval_ms"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Path of the log file; empty disables logging
	Path string `toml:"path" yaml:"path"`
	// Level is debug, info, warn or error
	Level string `toml:"level" yaml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultModel          = "llama3"
	DefaultOllamaURL      = "http://127.0.0.1:11434"
	DefaultTitle          = "Kivama"
	DefaultTheme          = "dark"
	DefaultTickIntervalMs = 16
	DefaultTimeoutSecs    = 30
	DefaultLogLevel       = "info"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model: DefaultModel,
		Local: LocalConfig{
			OllamaURL:   DefaultOllamaURL,
			TimeoutSecs: DefaultTimeoutSecs,
		},
		UI: UIConfig{
			Title:          DefaultTitle,
			Theme:          DefaultTheme,
			TickIntervalMs: DefaultTickIntervalMs,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// TickInterval returns the UI tick cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.UI.TickIntervalMs) * time.Millisecond
}

// Timeout returns the timeout for non-streaming Ollama requests.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Local.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the kivama configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".kivama"), nil
}

// EnvFilePath returns the path to the optional dotenv file (~/.kivama/.env).
func EnvFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadEnvFile exports the variables in a dotenv file into the process
// environment. Variables that already hold a non-empty value win. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	for k, v := range vars {
		if os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file locations.
// Tries TOML first, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathYAML} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The format is chosen by extension: .yaml/.yml is YAML, anything else TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := LoadYAML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load YAML config from %s: %w", path, err)
		}
	default:
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish applies env overrides, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values; unknown keys are an error.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg. Unknown keys are an error.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS AND OVERRIDES
// =============================================================================

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.Local.OllamaURL == "" {
		c.Local.OllamaURL = defaults.Local.OllamaURL
	}
	if c.Local.TimeoutSecs == 0 {
		c.Local.TimeoutSecs = defaults.Local.TimeoutSecs
	}
	if c.UI.Title == "" {
		c.UI.Title = defaults.UI.Title
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.TickIntervalMs == 0 {
		c.UI.TickIntervalMs = defaults.UI.TickIntervalMs
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - KIVAMA_MODEL: overrides model
//   - KIVAMA_OLLAMA_URL: overrides local.ollama_url
//   - OLLAMA_HOST: used for local.ollama_url when KIVAMA_OLLAMA_URL is unset
//   - KIVAMA_TICK_MS: overrides ui.tick_interval_ms
//   - KIVAMA_LOG_FILE: overrides log.path
//   - KIVAMA_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("KIVAMA_MODEL"); model != "" {
		c.Model = model
	}

	if u := os.Getenv("KIVAMA_OLLAMA_URL"); u != "" {
		c.Local.OllamaURL = u
	} else if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Local.OllamaURL = normalizeOllamaHost(host)
	}

	if tick := os.Getenv("KIVAMA_TICK_MS"); tick != "" {
		if ms, err := strconv.Atoi(tick); err == nil {
			c.UI.TickIntervalMs = ms
		}
	}

	if path := os.Getenv("KIVAMA_LOG_FILE"); path != "" {
		c.Log.Path = path
	}
	if level := os.Getenv("KIVAMA_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// normalizeOllamaHost turns an OLLAMA_HOST value ("0.0.0.0:11434",
// "localhost", "https://host") into a base URL.
func normalizeOllamaHost(host string) string {
	host = strings.TrimSpace(host)
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	if u.Port() == "" {
		u.Host = u.Host + ":11434"
	}
	return strings.TrimSuffix(u.String(), "/")
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
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "must not be empty"})
	}

	if u, err := url.Parse(c.Local.OllamaURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "local.ollama_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host:port", c.Local.OllamaURL),
		})
	}

	if c.Local.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "local.timeout_secs", Message: "must not be negative"})
	}

	if c.UI.TickIntervalMs <= 0 || c.UI.TickIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.tick_interval_ms",
			Message: fmt.Sprintf("invalid value %d, must be between 1 and 1000", c.UI.TickIntervalMs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// String returns the configuration encoded as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}
