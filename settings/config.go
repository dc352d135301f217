// ABOUTME: Configuration for the rep-settings key-value backend
// ABOUTME: Chooses local badger storage or a charm-synced KV, stored as JSON under XDG

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// AppName names the XDG directories and the charm KV database.
	AppName = "callcoach"

	// DefaultCharmHost is the self-hosted charm server.
	DefaultCharmHost = "charm.2389.dev"

	ConfigFileName = "settings-config.json"

	BackendLocal = "local"
	BackendCharm = "charm"
)

// Config holds the settings backend selection.
type Config struct {
	// Backend is "local" (badger on disk) or "charm" (synced KV).
	Backend string `json:"backend"`

	// Host is the charm server hostname, used by the charm backend.
	Host string `json:"host,omitempty"`

	// AutoSync syncs the charm KV after every write.
	AutoSync bool `json:"auto_sync"`

	// Path is the badger directory for the local backend.
	Path string `json:"path,omitempty"`

	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendLocal,
		Host:           DefaultCharmHost,
		AutoSync:       true,
		Path:           filepath.Join(xdg.DataHome, AppName, "settings"),
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

func configPath() (string, error) {
	dir := filepath.Join(xdg.ConfigHome, AppName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LoadConfig reads the config file, returning defaults when it is missing
// or unreadable.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil //nolint:nilerr // defaults when the config dir is unavailable
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil //nolint:nilerr // a corrupt file falls back to defaults
	}

	def := DefaultConfig()
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.Host == "" {
		cfg.Host = def.Host
	}
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = def.StaleThreshold
	}
	return &cfg, nil
}

// Validate rejects unknown backends.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendCharm:
		return nil
	}
	return fmt.Errorf("unknown settings backend %q (want %s or %s)", c.Backend, BackendLocal, BackendCharm)
}

// Save persists the config to the XDG config path.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.saveFile(path)
}

func (c *Config) saveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
