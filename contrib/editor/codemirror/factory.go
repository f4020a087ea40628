// Package codemirror provides a CodeMirror 5 source editor factory.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/editor/codemirror"
//	)
//
//	factory := codemirror.NewFactory(
//	    codemirror.WithLanguages("go", "python", "javascript"),
//	    codemirror.WithBaseURL("/static/codemirror"),
//	    codemirror.WithAssetDir("./public/static/codemirror"),
//	)
//	adapter, err := factory.Create(contracts.EditorConfig{"element": "#src", "mode": "go"}, true)
package codemirror

import (
	"strings"

	"github.com/madcok-co/editorkit/contrib/validator/playground"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

const (
	Name    = "codemirror"
	Version = "5.65.16"
	License = "MIT"

	DefaultBaseURL = "https://cdnjs.cloudflare.com/ajax/libs/codemirror/" + Version
	DefaultTheme   = "default"
)

// DefaultLanguages are the modes enabled when WithLanguages is not used
var DefaultLanguages = []string{
	"css", "go", "htmlmixed", "javascript", "markdown",
	"php", "python", "sql", "xml", "yaml",
}

// Options recognized in the editor config
type Options struct {
	Element      string `mapstructure:"element" validate:"required,startswith=#"`
	Mode         string `mapstructure:"mode" validate:"required"`
	Theme        string `mapstructure:"theme" validate:"required"`
	LineNumbers  bool   `mapstructure:"line_numbers"`
	LineWrapping bool   `mapstructure:"line_wrapping"`
	ReadOnly     bool   `mapstructure:"read_only"`
	TabSize      int    `mapstructure:"tab_size" validate:"gte=1,lte=16"`
	Content      string `mapstructure:"content"`
}

// DefaultOptions returns the options used for missing config keys
func DefaultOptions() Options {
	return Options{
		Element:     "#editor",
		Theme:       DefaultTheme,
		LineNumbers: true,
		TabSize:     4,
	}
}

// Factory implements contracts.EditorFactory for CodeMirror
type Factory struct {
	info      *editor.SourceInfo
	baseURL   string
	validator contracts.Validator
}

type settings struct {
	baseURL   string
	assetDir  string
	languages []string
	validator contracts.Validator
}

// Option configures the Factory
type Option func(*settings)

// WithBaseURL sets where codemirror assets are served from
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.baseURL = url
	}
}

// WithAssetDir marks the editor as self-hosted: it is only available while dir exists
func WithAssetDir(dir string) Option {
	return func(s *settings) {
		s.assetDir = dir
	}
}

// WithLanguages replaces the enabled language set
func WithLanguages(languages ...string) Option {
	return func(s *settings) {
		s.languages = languages
	}
}

// WithValidator sets the validator used by checked creation
func WithValidator(v contracts.Validator) Option {
	return func(s *settings) {
		s.validator = v
	}
}

// NewFactory creates a codemirror editor factory
func NewFactory(opts ...Option) *Factory {
	s := &settings{
		baseURL:   DefaultBaseURL,
		languages: DefaultLanguages,
	}
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
		info:      editor.NewSourceInfo(editor.NewInfo(Name, Version, License, probe), s.languages...),
		baseURL:   strings.TrimRight(s.baseURL, "/"),
		validator: s.validator,
	}
}

// Info returns codemirror info as contracts.SourceEditorInfo
func (f *Factory) Info() contracts.EditorInfo {
	return f.info
}

// Create creates a codemirror editor instance
func (f *Factory) Create(config contracts.EditorConfig, checkCompatible bool) (contracts.EditorAdapter, error) {
	opts := DefaultOptions()
	unused, err := editor.DecodeConfig(config, &opts)

	if checkCompatible {
		if err := f.check(opts, unused, err); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	mode := strings.ToLower(opts.Mode)
	id := editor.ElementID(opts.Element)

	styles := []string{f.baseURL + "/codemirror.min.css"}
	if opts.Theme != "" && opts.Theme != DefaultTheme {
		styles = append(styles, f.baseURL+"/theme/"+opts.Theme+".min.css")
	}

	scripts := []string{f.baseURL + "/codemirror.min.js"}
	if mode != "" {
		scripts = append(scripts, f.baseURL+"/mode/"+mode+"/"+mode+".min.js")
	}

	attrs := map[string]string{
		"id":          id,
		"data-editor": Name,
	}
	if mode != "" {
		attrs["data-mode"] = mode
	}

	setup := map[string]any{
		"mode":         mode,
		"theme":        opts.Theme,
		"lineNumbers":  opts.LineNumbers,
		"lineWrapping": opts.LineWrapping,
		"readOnly":     opts.ReadOnly,
		"tabSize":      opts.TabSize,
		"indentUnit":   opts.TabSize,
	}

	return editor.NewAdapter(editor.AdapterSpec{
		Tag:        "textarea",
		Content:    opts.Content,
		Attributes: attrs,
		StyleURLs:  styles,
		ScriptURLs: scripts,
		ScriptCode: "CodeMirror.fromTextArea(document.getElementById(" + editor.JSString(id) + "), " +
			editor.JSONValue(setup) + ");",
	}), nil
}

func (f *Factory) check(opts Options, unused []string, decodeErr error) error {
	if err := editor.CheckEnvironment(f.info.Info); err != nil {
		return err
	}
	if err := editor.CheckDecoded(Name, decodeErr, unused); err != nil {
		return err
	}
	if err := f.validator.Validate(opts); err != nil {
		return contracts.NewIncompatibleEditorError(Name, "invalid config: %v", err).WithCause(err)
	}
	if !f.info.Supports(opts.Mode) {
		if hint := editor.Suggest(opts.Mode, f.info.SupportedLanguages()); hint != "" {
			return contracts.NewIncompatibleEditorError(Name, "language %q is not supported (did you mean %q?)", opts.Mode, hint)
		}
		return contracts.NewIncompatibleEditorError(Name, "language %q is not supported", opts.Mode)
	}
	return nil
}

var _ contracts.EditorFactory = (*Factory)(nil)
