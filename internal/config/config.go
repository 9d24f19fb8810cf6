// Package config handles loading and managing sessionboard configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SESSIONBOARD_POLL_INTERVAL.
const EnvPrefix = "SESSIONBOARD"

// Config represents config.yaml.
type Config struct {
	Poll    PollConfig    `mapstructure:"poll"`
	Store   StoreConfig   `mapstructure:"store"`
	Focus   FocusConfig   `mapstructure:"focus"`
	Hotkey  HotkeyConfig  `mapstructure:"hotkey"`
	Opener  OpenerConfig  `mapstructure:"opener"`
	Git     GitConfig     `mapstructure:"git"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`

	// Internal: path to the config file, empty when running on defaults
	configPath string
}

// PollConfig controls where snapshots come from and how often.
type PollConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	FetchCommand string        `mapstructure:"fetch_command"` // prints the sessions JSON on stdout
	FetchFile    string        `mapstructure:"fetch_file"`    // JSON file kept current by another process
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// Store backends.
const (
	StoreBackendFile   = "file"
	StoreBackendSQLite = "sqlite"
)

// StoreConfig selects where names, links and the hotkey are kept.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // file, sqlite
	Dir     string `mapstructure:"dir"`
}

// FocusConfig selects how a session window is brought forward.
type FocusConfig struct {
	Strategy string `mapstructure:"strategy"` // tmux, command, none
	Command  string `mapstructure:"command"`  // {pid} and {path} are substituted
}

// HotkeyConfig holds the commands that bind the global shortcut.
type HotkeyConfig struct {
	RegisterCommand   string `mapstructure:"register_command"`   // {combo} is substituted
	UnregisterCommand string `mapstructure:"unregister_command"` // {combo} is substituted
}

// Enabled reports whether a registrar is configured.
func (h HotkeyConfig) Enabled() bool {
	return h.RegisterCommand != ""
}

// OpenerConfig controls how quick links are opened.
type OpenerConfig struct {
	Command       string `mapstructure:"command"` // {url} is substituted; empty uses the system opener
	DefaultScheme string `mapstructure:"default_scheme"`
}

// GitConfig controls branch and link enrichment.
type GitConfig struct {
	Enrich   bool          `mapstructure:"enrich"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig controls the log files.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

// DefaultPath returns $XDG_CONFIG_HOME/sessionboard/config.yaml, falling
// back to ~/.config.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "sessionboard", "config.yaml")
}

// DefaultStoreDir returns $XDG_STATE_HOME/sessionboard, falling back to ~/.local/state.
func DefaultStoreDir() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "sessionboard")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing default file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return load(newViper(), "")
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v, configPath)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.configPath = configPath
	merged := MergeWithDefaults(&cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// ConfigPath returns the path to the loaded config file.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// Validate reports settings no component can run with.
func (c *Config) Validate() error {
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}

	switch c.Store.Backend {
	case StoreBackendFile, StoreBackendSQLite:
	default:
		return fmt.Errorf("store.backend must be file or sqlite, got %q", c.Store.Backend)
	}

	switch c.Focus.Strategy {
	case "tmux", "none":
	case "command":
		if c.Focus.Command == "" {
			return fmt.Errorf("focus.strategy command needs focus.command")
		}
	default:
		return fmt.Errorf("focus.strategy must be tmux, command or none, got %q", c.Focus.Strategy)
	}

	return nil
}

// HasSource reports whether a snapshot producer is configured.
func (c *Config) HasSource() bool {
	return c.Poll.FetchCommand != "" || c.Poll.FetchFile != ""
}
