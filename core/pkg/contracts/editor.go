package contracts

import "fmt"

// EditorAdapter describes one configured editor instance that can be rendered.
// Every value is derived from the configuration bound at creation time, so
// repeated calls return equal results and never fail.
type EditorAdapter interface {
	// String returns an embeddable text form of the editor
	fmt.Stringer

	// Attributes returns HTML attributes for the editor container
	Attributes() map[string]string

	// StyleURLs returns stylesheet URLs in link order
	StyleURLs() []string

	// ScriptURLs returns script URLs in load order
	ScriptURLs() []string

	// ScriptCode returns inline code that initializes the editor
	ScriptCode() string
}

// EditorInfo describes an editor implementation, independent of any instance
type EditorInfo interface {
	// Name returns the editor identifier
	Name() string

	// IsAvailable checks if the editor can run on this system.
	// The result is not cached and may change between calls.
	IsAvailable() bool

	// Version returns the editor version (format is implementation defined)
	Version() string

	// License returns the editor license name
	License() string
}

// SourceEditorInfo describes an editor with syntax highlighting
type SourceEditorInfo interface {
	EditorInfo

	// SupportedLanguages returns languages that can be highlighted.
	// An empty result means no language is enabled.
	SupportedLanguages() []string
}

// EditorFactory creates editor adapters from config
type EditorFactory interface {
	// Info returns what this factory creates
	Info() EditorInfo

	// Create creates a new editor instance from config.
	//
	// When checkCompatible is true the factory validates the environment and
	// config first and returns an *IncompatibleEditorError (with a nil adapter)
	// if that check fails. When false the check may be skipped entirely.
	Create(config EditorConfig, checkCompatible bool) (EditorAdapter, error)
}
