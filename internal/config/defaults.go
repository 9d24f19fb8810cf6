package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultConfig returns the default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Poll: PollConfig{
			Interval:     2000 * time.Millisecond,
			FetchTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend: StoreBackendFile,
			Dir:     DefaultStoreDir(),
		},
		Focus: FocusConfig{
			Strategy: "tmux",
		},
		Opener: OpenerConfig{
			DefaultScheme: "http",
		},
		Git: GitConfig{
			Enrich:   true,
			CacheTTL: 30 * time.Second,
		},
	}
}

// setDefaults registers every key with viper so environment overrides apply
// even when the file does not mention the key.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("poll.interval", d.Poll.Interval)
	v.SetDefault("poll.fetch_command", d.Poll.FetchCommand)
	v.SetDefault("poll.fetch_file", d.Poll.FetchFile)
	v.SetDefault("poll.fetch_timeout", d.Poll.FetchTimeout)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("focus.strategy", d.Focus.Strategy)
	v.SetDefault("focus.command", d.Focus.Command)
	v.SetDefault("hotkey.register_command", d.Hotkey.RegisterCommand)
	v.SetDefault("hotkey.unregister_command", d.Hotkey.UnregisterCommand)
	v.SetDefault("opener.command", d.Opener.Command)
	v.SetDefault("opener.default_scheme", d.Opener.DefaultScheme)
	v.SetDefault("git.enrich", d.Git.Enrich)
	v.SetDefault("git.cache_ttl", d.Git.CacheTTL)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.debug", d.Log.Debug)
}

// MergeWithDefaults merges a loaded config with defaults for any missing values.
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	// Poll defaults
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = defaults.Poll.Interval
	}
	if cfg.Poll.FetchTimeout == 0 {
		cfg.Poll.FetchTimeout = defaults.Poll.FetchTimeout
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaults.Store.Backend
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = defaults.Store.Dir
	}

	// Focus defaults
	if cfg.Focus.Strategy == "" {
		cfg.Focus.Strategy = defaults.Focus.Strategy
	}

	// Opener defaults
	if cfg.Opener.DefaultScheme == "" {
		cfg.Opener.DefaultScheme = defaults.Opener.DefaultScheme
	}

	// Git defaults
	if cfg.Git.CacheTTL == 0 {
		cfg.Git.CacheTTL = defaults.Git.CacheTTL
	}

	return cfg
}
