// Package registry keeps editor factories by name and picks the first
// compatible editor out of a preference list.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

var (
	// ErrFactoryNotFound is returned when no factory is registered under a name
	ErrFactoryNotFound = errors.New("editor factory not found")

	// ErrFactoryAlreadyRegistered is returned when a name is registered twice
	ErrFactoryAlreadyRegistered = errors.New("editor factory already registered")

	// ErrNoCompatibleEditor is returned by CreateFirst when every candidate failed
	ErrNoCompatibleEditor = errors.New("no compatible editor")
)

// Registry manages editor factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]contracts.EditorFactory
	order     []string // untuk maintain registration order
	logger    contracts.Logger
}

// Option configures the Registry
type Option func(*Registry)

// WithLogger sets the logger used to report skipped editors
func WithLogger(l contracts.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l.Named("registry")
		}
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]contracts.EditorFactory),
		order:     make([]string, 0),
		logger:    contracts.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a factory under its info name
func (r *Registry) Register(f contracts.EditorFactory) error {
	if f == nil {
		return errors.New("registry: nil factory")
	}
	name := f.Info().Name()
	if name == "" {
		return errors.New("registry: factory has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrFactoryAlreadyRegistered, name)
	}

	r.factories[name] = f
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers factories and panics on error
func (r *Registry) MustRegister(factories ...contracts.EditorFactory) *Registry {
	for _, f := range factories {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}

// Get returns a factory by name
func (r *Registry) Get(name string) (contracts.EditorFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.factories[name]; ok {
		return f, nil
	}
	if s := editor.Suggest(name, r.order); s != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrFactoryNotFound, name, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns all factory names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}

// Infos returns the info of every factory in registration order
func (r *Registry) Infos() []contracts.EditorInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]contracts.EditorInfo, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.factories[name].Info())
	}
	return result
}

// Available returns the names of editors whose prerequisites are met right now
func (r *Registry) Available() []string {
	result := make([]string, 0)
	for _, info := range r.Infos() {
		if info.IsAvailable() {
			result = append(result, info.Name())
		}
	}
	return result
}

// Count returns number of factories
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Create looks up name and creates an adapter from config
func (r *Registry) Create(name string, config contracts.EditorConfig, checkCompatible bool) (contracts.EditorAdapter, error) {
	f, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return f.Create(config, checkCompatible)
}

// CreateFirst tries names in order with compatibility checking and returns the
// first editor that accepts config. Unknown names and incompatible editors are
// skipped; any other error aborts.
func (r *Registry) CreateFirst(names []string, config contracts.EditorConfig) (contracts.EditorAdapter, string, error) {
	return r.CreateFirstWith(names, func(string) contracts.EditorConfig { return config })
}

// CreateFirstWith is CreateFirst with a config chosen per editor name
func (r *Registry) CreateFirstWith(names []string, configFor func(name string) contracts.EditorConfig) (contracts.EditorAdapter, string, error) {
	var failures []error

	for _, name := range names {
		f, err := r.Get(name)
		if err != nil {
			r.logger.Warn("skipping unknown editor", "editor", name)
			failures = append(failures, err)
			continue
		}

		adapter, err := f.Create(configFor(name), true)
		if err == nil {
			r.logger.Debug("editor selected", "editor", name, "skipped", len(failures))
			return adapter, name, nil
		}
		if !contracts.IsIncompatible(err) {
			return nil, "", fmt.Errorf("create %s: %w", name, err)
		}

		r.logger.WithError(err).Warn("skipping incompatible editor", "editor", name)
		failures = append(failures, err)
	}

	return nil, "", errors.Join(append([]error{ErrNoCompatibleEditor}, failures...)...)
}
