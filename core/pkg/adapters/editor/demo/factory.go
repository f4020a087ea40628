// Package demo provides a minimal editor factory that loads a single script
// and calls Demo.init on the target element. It is the reference
// implementation of contracts.EditorFactory and doubles as a smoke-test
// editor for host applications.
package demo

import (
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

const (
	Name    = "demo"
	Version = "1.0.0"
	License = "MIT"

	DefaultElement = "#editor"
	DefaultScript  = "demo.js"
)

// Options recognized in the editor config
type Options struct {
	Element string `mapstructure:"element"`
	Script  string `mapstructure:"script"`
}

// Factory implements contracts.EditorFactory
type Factory struct {
	info *editor.Info
}

type settings struct {
	prerequisite editor.Prerequisite
}

// Option configures the Factory
type Option func(*settings)

// WithPrerequisite makes availability depend on p
func WithPrerequisite(p editor.Prerequisite) Option {
	return func(s *settings) {
		s.prerequisite = p
	}
}

// NewFactory creates a demo editor factory
func NewFactory(opts ...Option) *Factory {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	return &Factory{
		info: editor.NewInfo(Name, Version, License, s.prerequisite),
	}
}

// Info returns the demo editor info
func (f *Factory) Info() contracts.EditorInfo {
	return f.info
}

// Create creates a demo editor instance
func (f *Factory) Create(config contracts.EditorConfig, checkCompatible bool) (contracts.EditorAdapter, error) {
	opts := Options{Element: DefaultElement, Script: DefaultScript}
	unused, err := editor.DecodeConfig(config, &opts)

	if checkCompatible {
		if err := f.check(opts, unused, err); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return editor.NewAdapter(editor.AdapterSpec{
		Attributes: map[string]string{"id": editor.ElementID(opts.Element)},
		ScriptURLs: []string{opts.Script},
		ScriptCode: "Demo.init(" + editor.JSString(opts.Element) + ");",
	}), nil
}

func (f *Factory) check(opts Options, unused []string, decodeErr error) error {
	if err := editor.CheckEnvironment(f.info); err != nil {
		return err
	}
	if err := editor.CheckDecoded(Name, decodeErr, unused); err != nil {
		return err
	}
	if !editor.IsIDSelector(opts.Element) {
		return contracts.NewIncompatibleEditorError(Name, "element %q is not an id selector", opts.Element)
	}
	if opts.Script == "" {
		return contracts.NewIncompatibleEditorError(Name, "script url is empty")
	}
	return nil
}

// Ensure Factory implements contracts.EditorFactory
var _ contracts.EditorFactory = (*Factory)(nil)
