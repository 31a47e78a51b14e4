// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Backend modes.
const (
	ModeDirect = "direct" // call the model API with a local key
	ModeProxy  = "proxy"  // route through a golem chat proxy
)

// Default model identifiers.
const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultFallbackModel = "gemini-2.5-flash-lite"
)

// Config represents the complete golem configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig selects and parameterizes the model backend.
type BackendConfig struct {
	// Mode is "direct" or "proxy".
	Mode string `toml:"mode"`
	// APIKey is the model API key for direct mode and the proxy server.
	APIKey string `toml:"api_key"`
	// ProxyURL is the proxy origin for proxy mode.
	ProxyURL string `toml:"proxy_url"`
	// Model is the primary model identifier.
	Model string `toml:"model"`
	// FallbackModel is tried once when the primary suffers a server
	// fault. Empty disables the fallback.
	FallbackModel string `toml:"fallback_model"`
}

// StorageConfig locates the conversation history file.
type StorageConfig struct {
	// Path is the history file. Empty selects ~/.golem/chats.json.
	Path string `toml:"path"`
}

// ServerConfig parameterizes the chat proxy when run with --serve.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`
	// RateLimit is the sustained requests per second allowed per IP.
	RateLimit float64 `toml:"rate_limit"`
	// RateBurst is the per-IP burst allowance.
	RateBurst int `toml:"rate_burst"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// RevealIntervalMs is the typewriter step delay in milliseconds.
	// Zero selects the built-in default.
	RevealIntervalMs int `toml:"reveal_interval_ms"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Mode:          ModeDirect,
			Model:         DefaultModel,
			FallbackModel: DefaultFallbackModel,
			ProxyURL:      "http://127.0.0.1:8787",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8787",
			RateLimit: 2,
			RateBurst: 10,
		},
	}
}

// Dir returns the golem configuration directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".golem")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from the default location, applying defaults
// and environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file. The file must
// exist. Environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTOML decodes the file over cfg, leaving absent fields untouched.
func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Backend.APIKey = key
	}
	if mode := os.Getenv("GOLEM_MODE"); mode != "" {
		c.Backend.Mode = mode
	}
	if url := os.Getenv("GOLEM_PROXY_URL"); url != "" {
		c.Backend.ProxyURL = url
	}
	if model := os.Getenv("GOLEM_MODEL"); model != "" {
		c.Backend.Model = model
	}
	if path := os.Getenv("GOLEM_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case ModeDirect, ModeProxy:
	default:
		return fmt.Errorf("invalid backend mode %q: must be %q or %q", c.Backend.Mode, ModeDirect, ModeProxy)
	}
	if c.Backend.Mode == ModeProxy && strings.TrimSpace(c.Backend.ProxyURL) == "" {
		return fmt.Errorf("proxy mode requires proxy_url")
	}
	if strings.TrimSpace(c.Backend.Model) == "" {
		return fmt.Errorf("backend model must not be empty")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server rate_limit must be positive")
	}
	if c.Server.RateBurst <= 0 {
		return fmt.Errorf("server rate_burst must be positive")
	}
	if c.UI.RevealIntervalMs < 0 {
		return fmt.Errorf("ui reveal_interval_ms must not be negative")
	}
	return nil
}

// StoragePath resolves the history file location.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chats.json"), nil
}
