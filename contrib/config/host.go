package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// HostConfig is the full configuration of an editorkit host
type HostConfig struct {
	Log        LogConfig             `mapstructure:"log"`
	Server     ServerConfig          `mapstructure:"server"`
	Cache      contracts.CacheConfig `mapstructure:"cache"`
	Database   DatabaseConfig        `mapstructure:"database"`
	Editor     EditorSelection       `mapstructure:"editor"`
	CodeMirror CodeMirrorConfig      `mapstructure:"codemirror"`
	TinyMCE    TinyMCEConfig         `mapstructure:"tinymce"`

	// Editors holds default config per editor name
	Editors map[string]map[string]any `mapstructure:"editors"`
}

// LogConfig untuk konfigurasi logger
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

// ServerConfig untuk preview server
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Compress        bool          `mapstructure:"compress"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig untuk profile store
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver sqlite"`
}

// EditorSelection lists the editor to use and what to try when it does not fit
type EditorSelection struct {
	Default   string   `mapstructure:"default" validate:"required"`
	Fallbacks []string `mapstructure:"fallbacks"`
}

// CodeMirrorConfig configures the bundled codemirror factory
type CodeMirrorConfig struct {
	BaseURL   string   `mapstructure:"base_url"`
	AssetDir  string   `mapstructure:"asset_dir"`
	Languages []string `mapstructure:"languages"`
}

// TinyMCEConfig configures the bundled tinymce factory
type TinyMCEConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	AssetDir string `mapstructure:"asset_dir"`
	APIKey   string `mapstructure:"api_key"`
}

func hostDefaults() map[string]any {
	return map[string]any{
		"log.level":               contracts.LogLevelInfo,
		"log.format":              contracts.LogFormatJSON,
		"log.output":              "stderr",
		"server.addr":             "127.0.0.1:8080",
		"server.compress":         true,
		"server.read_timeout":     "10s",
		"server.write_timeout":    "10s",
		"server.shutdown_timeout": "5s",
		"cache.driver":            "memory",
		"cache.addr":              "",
		"cache.password":          "",
		"cache.database":          0,
		"cache.prefix":            "editorkit",
		"cache.ttl":               "5m",
		"database.driver":         "memory",
		"database.dsn":            "",
		"editor.default":          "textarea",
		"editor.fallbacks":        []string{},
		"codemirror.base_url":     "",
		"codemirror.asset_dir":    "",
		"codemirror.languages":    []string{},
		"tinymce.base_url":        "",
		"tinymce.asset_dir":       "",
		"tinymce.api_key":         "",
	}
}

// Host unmarshals the host configuration and validates it when v is not nil
func (d *Driver) Host(v contracts.Validator) (*HostConfig, error) {
	var host HostConfig
	if err := d.viper.Unmarshal(&host); err != nil {
		return nil, fmt.Errorf("failed to decode host config: %w", err)
	}
	if v != nil {
		if err := v.Validate(host); err != nil {
			return nil, fmt.Errorf("invalid host config: %w", err)
		}
	}
	return &host, nil
}

// Candidates returns the default editor followed by fallbacks, without duplicates
func (h *HostConfig) Candidates() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 1+len(h.Editor.Fallbacks))
	for _, name := range append([]string{h.Editor.Default}, h.Editor.Fallbacks...) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
