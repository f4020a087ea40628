package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

type testOptions struct {
	Element     string   `mapstructure:"element"`
	LineNumbers bool     `mapstructure:"line_numbers"`
	TabSize     int      `mapstructure:"tab_size"`
	Plugins     []string `mapstructure:"plugins"`
}

func TestDecodeConfig(t *testing.T) {
	t.Run("defaults are kept for missing keys", func(t *testing.T) {
		opts := testOptions{Element: "#editor", TabSize: 4}
		unused, err := DecodeConfig(contracts.EditorConfig{"line_numbers": true}, &opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(unused) != 0 {
			t.Errorf("unexpected unused keys: %v", unused)
		}
		if opts.Element != "#editor" || opts.TabSize != 4 || !opts.LineNumbers {
			t.Errorf("unexpected options: %+v", opts)
		}
	})

	t.Run("weak typing", func(t *testing.T) {
		var opts testOptions
		_, err := DecodeConfig(contracts.EditorConfig{
			"line_numbers": "true",
			"tab_size":     "8",
			"plugins":      "lists,link",
		}, &opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !opts.LineNumbers || opts.TabSize != 8 {
			t.Errorf("unexpected options: %+v", opts)
		}
		if strings.Join(opts.Plugins, "|") != "lists|link" {
			t.Errorf("unexpected plugins: %v", opts.Plugins)
		}
	})

	t.Run("slice values", func(t *testing.T) {
		var opts testOptions
		_, err := DecodeConfig(contracts.EditorConfig{"plugins": []any{"code", "table"}}, &opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opts.Plugins) != 2 {
			t.Errorf("unexpected plugins: %v", opts.Plugins)
		}
	})

	t.Run("reports unused keys sorted", func(t *testing.T) {
		var opts testOptions
		unused, err := DecodeConfig(contracts.EditorConfig{"zeta": 1, "alpha": 2, "element": "#x"}, &opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Join(unused, ",") != "alpha,zeta" {
			t.Errorf("unexpected unused keys: %v", unused)
		}
	})

	t.Run("nil config", func(t *testing.T) {
		opts := testOptions{Element: "#keep"}
		if _, err := DecodeConfig(nil, &opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Element != "#keep" {
			t.Error("nil config should keep defaults")
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		var opts testOptions
		_, err := DecodeConfig(contracts.EditorConfig{"tab_size": "wide"}, &opts)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConfigKey(t *testing.T) {
	a := ConfigKey(contracts.EditorConfig{"element": "#editor", "mode": "go"})
	b := ConfigKey(contracts.EditorConfig{"mode": "go", "element": "#editor"})
	c := ConfigKey(contracts.EditorConfig{"mode": "python", "element": "#editor"})

	if a != b {
		t.Error("key should not depend on map order")
	}
	if a == c {
		t.Error("different configs should produce different keys")
	}
	if ConfigKey(nil) != ConfigKey(contracts.EditorConfig{}) {
		t.Error("nil and empty configs should share a key")
	}
	if ConfigKey(contracts.EditorConfig{"fn": func() {}}) == "" {
		t.Error("unencodable config should still produce a key")
	}
}
