// Package textarea provides a plain HTML textarea editor. It needs no scripts
// and is always available, which makes it the usual last fallback.
package textarea

import (
	"strconv"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

const (
	Name    = "textarea"
	Version = "1.0.0"
	License = "MIT"
)

// Options recognized in the editor config
type Options struct {
	Element     string `mapstructure:"element"`
	Name        string `mapstructure:"name"`
	Rows        int    `mapstructure:"rows"`
	Cols        int    `mapstructure:"cols"`
	Placeholder string `mapstructure:"placeholder"`
	ReadOnly    bool   `mapstructure:"read_only"`
	Content     string `mapstructure:"content"`
}

// DefaultOptions returns the options used for missing config keys
func DefaultOptions() Options {
	return Options{
		Element: "#editor",
		Rows:    10,
		Cols:    80,
	}
}

// Factory implements contracts.EditorFactory
type Factory struct {
	info *editor.Info
}

// NewFactory creates a textarea editor factory
func NewFactory() *Factory {
	return &Factory{info: editor.NewInfo(Name, Version, License, nil)}
}

// Info returns the textarea editor info
func (f *Factory) Info() contracts.EditorInfo {
	return f.info
}

// Create creates a textarea editor instance
func (f *Factory) Create(config contracts.EditorConfig, checkCompatible bool) (contracts.EditorAdapter, error) {
	opts := DefaultOptions()
	unused, err := editor.DecodeConfig(config, &opts)

	if checkCompatible {
		if err := check(opts, unused, err); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	id := editor.ElementID(opts.Element)
	name := opts.Name
	if name == "" {
		name = id
	}

	attrs := map[string]string{
		"id":   id,
		"name": name,
		"rows": strconv.Itoa(opts.Rows),
		"cols": strconv.Itoa(opts.Cols),
	}
	if opts.Placeholder != "" {
		attrs["placeholder"] = opts.Placeholder
	}
	if opts.ReadOnly {
		attrs["readonly"] = "readonly"
	}

	return editor.NewAdapter(editor.AdapterSpec{
		Tag:        "textarea",
		Content:    opts.Content,
		Attributes: attrs,
	}), nil
}

func check(opts Options, unused []string, decodeErr error) error {
	if err := editor.CheckDecoded(Name, decodeErr, unused); err != nil {
		return err
	}
	if !editor.IsIDSelector(opts.Element) {
		return contracts.NewIncompatibleEditorError(Name, "element %q is not an id selector", opts.Element)
	}
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return contracts.NewIncompatibleEditorError(Name, "rows and cols must be positive (got %d x %d)", opts.Rows, opts.Cols)
	}
	return nil
}

var _ contracts.EditorFactory = (*Factory)(nil)
