// Package config provides configuration management for editorkit hosts using Viper.
//
// Supports:
//   - Config files (YAML, JSON, TOML)
//   - Environment overrides (EDITORKIT_SERVER_ADDR, ...)
//   - Typed host configuration with per-editor default configs
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/config"
//	)
//
//	cfg, err := config.NewDriver(&config.Config{
//	    ConfigName: "editorkit",
//	    ConfigPath: "./configs",
//	    ConfigType: "yaml",
//	})
//	host, err := cfg.Host(validator)
//
// With WatchConfig set, OnChange callbacks fire after the file is edited.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Driver implements configuration management using Viper
type Driver struct {
	viper  *viper.Viper
	config *Config
	mu     sync.RWMutex

	// Callbacks for config changes
	onChange []func()
	watching bool
}

// Config for configuration driver
type Config struct {
	ConfigName string // Config file name (without extension)
	ConfigPath string // Config file path
	ConfigType string // Config file type (yaml, json, toml)
	ConfigFile string // Full path to config file (alternative to name+path)

	// Additional config paths to search
	ConfigPaths []string

	// Environment variables
	EnvPrefix    string
	AutomaticEnv bool

	// Watching for changes
	WatchConfig bool

	// Default values, applied on top of the host defaults
	Defaults map[string]any
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ConfigName:   "editorkit",
		ConfigPath:   ".",
		ConfigType:   "yaml",
		AutomaticEnv: true,
		EnvPrefix:    "EDITORKIT",
	}
}

// NewDriver creates a new configuration driver. A missing config file is not
// an error when searching by name; an explicit ConfigFile must exist.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	v := viper.New()

	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
	} else {
		v.SetConfigName(cfg.ConfigName)
		v.SetConfigType(cfg.ConfigType)
		v.AddConfigPath(cfg.ConfigPath)
		for _, path := range cfg.ConfigPaths {
			v.AddConfigPath(path)
		}
	}

	if cfg.AutomaticEnv {
		v.AutomaticEnv()
		if cfg.EnvPrefix != "" {
			v.SetEnvPrefix(cfg.EnvPrefix)
		}
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	}

	for key, value := range hostDefaults() {
		v.SetDefault(key, value)
	}
	for key, value := range cfg.Defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	driver := &Driver{
		viper:  v,
		config: cfg,
	}

	// viper can only watch a file it has found
	if cfg.WatchConfig && v.ConfigFileUsed() != "" {
		driver.watching = true
		v.WatchConfig()
		v.OnConfigChange(func(fsnotify.Event) {
			driver.mu.RLock()
			callbacks := driver.onChange
			driver.mu.RUnlock()

			for _, callback := range callbacks {
				callback()
			}
		})
	}

	return driver, nil
}

// ConfigFileUsed returns the file that was read, or ""
func (d *Driver) ConfigFileUsed() string {
	return d.viper.ConfigFileUsed()
}

// Reload re-reads the config file. Without a config file it is a no-op.
func (d *Driver) Reload() error {
	if d.viper.ConfigFileUsed() == "" {
		return nil
	}
	if err := d.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return nil
}

// OnChange registers callback for config file changes (requires WatchConfig).
// Callbacks run after the new file content has been read.
func (d *Driver) OnChange(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onChange = append(d.onChange, callback)
}

// Watching reports whether the config file is being watched
func (d *Driver) Watching() bool {
	return d.watching
}
