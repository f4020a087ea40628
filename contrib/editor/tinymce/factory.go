// Package tinymce provides a TinyMCE WYSIWYG editor factory. Assets come from
// Tiny Cloud (needs an API key) or from a self-hosted base URL.
//
// Usage:
//
//	factory := tinymce.NewFactory(tinymce.WithAPIKey(os.Getenv("TINYMCE_API_KEY")))
//	adapter, err := factory.Create(contracts.EditorConfig{"element": "#body", "height": 400}, true)
package tinymce

import (
	"strings"

	"github.com/madcok-co/editorkit/contrib/validator/playground"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

const (
	Name    = "tinymce"
	Version = "7.2.0"
	License = "GPL-2.0-or-later"

	cloudPrefix = "https://cdn.tiny.cloud/1/"
	cloudSuffix = "/tinymce/7/tinymce.min.js"

	noAPIKey = "no-api-key"
)

// Options recognized in the editor config
type Options struct {
	Element  string   `mapstructure:"element" validate:"required,startswith=#"`
	Height   int      `mapstructure:"height" validate:"gte=100,lte=4000"`
	Menubar  bool     `mapstructure:"menubar"`
	Plugins  []string `mapstructure:"plugins" validate:"dive,alpha"`
	Toolbar  string   `mapstructure:"toolbar"`
	Language string   `mapstructure:"language" validate:"omitempty,min=2,max=5"`
	APIKey   string   `mapstructure:"api_key"`
	Content  string   `mapstructure:"content"`
}

// DefaultOptions returns the options used for missing config keys
func DefaultOptions() Options {
	return Options{
		Element: "#editor",
		Height:  300,
		Plugins: []string{"lists", "link", "code"},
		Toolbar: "undo redo | bold italic | bullist numlist | link code",
	}
}

// Factory implements contracts.EditorFactory for TinyMCE
type Factory struct {
	info      *editor.Info
	baseURL   string
	apiKey    string
	validator contracts.Validator
}

type settings struct {
	baseURL   string
	apiKey    string
	assetDir  string
	validator contracts.Validator
}

// Option configures the Factory
type Option func(*settings)

// WithBaseURL switches to self-hosted assets served from url
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.baseURL = url
	}
}

// WithAssetDir makes availability depend on the self-hosted asset directory
func WithAssetDir(dir string) Option {
	return func(s *settings) {
		s.assetDir = dir
	}
}

// WithAPIKey sets the default Tiny Cloud API key
func WithAPIKey(key string) Option {
	return func(s *settings) {
		s.apiKey = key
	}
}

// WithValidator sets the validator used by checked creation
func WithValidator(v contracts.Validator) Option {
	return func(s *settings) {
		s.validator = v
	}
}

// NewFactory creates a tinymce editor factory
func NewFactory(opts ...Option) *Factory {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = playground.NewDriver()
	}

	var probe editor.Prerequisite
	if s.assetDir != "" {
		probe = editor.Directory(s.assetDir)
	}

	return &Factory{
		info:      editor.NewInfo(Name, Version, License, probe),
		baseURL:   strings.TrimRight(s.baseURL, "/"),
		apiKey:    s.apiKey,
		validator: s.validator,
	}
}

// Info returns tinymce info
func (f *Factory) Info() contracts.EditorInfo {
	return f.info
}

// SelfHosted reports whether assets are served from a base URL instead of Tiny Cloud
func (f *Factory) SelfHosted() bool {
	return f.baseURL != ""
}

// Create creates a tinymce editor instance
func (f *Factory) Create(config contracts.EditorConfig, checkCompatible bool) (contracts.EditorAdapter, error) {
	opts := DefaultOptions()
	opts.APIKey = f.apiKey
	unused, err := editor.DecodeConfig(config, &opts)

	if checkCompatible {
		if err := f.check(opts, unused, err); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	id := editor.ElementID(opts.Element)

	setup := map[string]any{
		"selector": editor.Selector(id),
		"height":   opts.Height,
		"menubar":  opts.Menubar,
		"plugins":  strings.Join(opts.Plugins, " "),
		"toolbar":  opts.Toolbar,
	}
	if opts.Language != "" {
		setup["language"] = opts.Language
	}

	var script string
	if f.SelfHosted() {
		script = f.baseURL + "/tinymce.min.js"
		setup["license_key"] = "gpl"
	} else {
		key := opts.APIKey
		if key == "" {
			key = noAPIKey
		}
		script = cloudPrefix + key + cloudSuffix
	}

	return editor.NewAdapter(editor.AdapterSpec{
		Tag:     "textarea",
		Content: opts.Content,
		Attributes: map[string]string{
			"id":          id,
			"data-editor": Name,
		},
		ScriptURLs: []string{script},
		ScriptCode: "tinymce.init(" + editor.JSONValue(setup) + ");",
	}), nil
}

func (f *Factory) check(opts Options, unused []string, decodeErr error) error {
	if err := editor.CheckEnvironment(f.info); err != nil {
		return err
	}
	if err := editor.CheckDecoded(Name, decodeErr, unused); err != nil {
		return err
	}
	if err := f.validator.Validate(opts); err != nil {
		return contracts.NewIncompatibleEditorError(Name, "invalid config: %v", err).WithCause(err)
	}
	if !f.SelfHosted() && opts.APIKey == "" {
		return contracts.NewIncompatibleEditorError(Name, "Tiny Cloud needs an api_key (or configure a self-hosted base URL)")
	}
	return nil
}

var _ contracts.EditorFactory = (*Factory)(nil)
